package banking

import "time"

// BankEntry is one immutable line of the banking ledger. Positive amounts are
// banked surplus, negative amounts are banked surplus applied to a later year.
type BankEntry struct {
	ID           int64     `json:"id" db:"id"`
	ShipID       string    `json:"shipId" db:"ship_id"`
	Year         int       `json:"year" db:"year"`
	AmountGCO2eq float64   `json:"amountGCO2eq" db:"amount_gco2eq"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Overdraft is a ship-year whose available banked balance is below zero.
type Overdraft struct {
	ShipID    string  `json:"shipId" db:"ship_id"`
	Year      int     `json:"year" db:"year"`
	Available float64 `json:"available" db:"available"`
}

// OperationRequest is the body of POST /banking/bank and POST /banking/apply
type OperationRequest struct {
	ShipID string   `json:"shipId" binding:"required"`
	Year   int      `json:"year" binding:"required"`
	Amount *float64 `json:"amount" binding:"required"`
}

// ApplyResult reports an applied amount and the balance left afterwards.
type ApplyResult struct {
	Message   string  `json:"message"`
	ShipID    string  `json:"shipId"`
	Year      int     `json:"year"`
	Amount    float64 `json:"amount"`
	Available float64 `json:"available"`
}

// AvailableBalance is the body of GET /banking/available
type AvailableBalance struct {
	ShipID    string  `json:"shipId"`
	Year      int     `json:"year"`
	Available float64 `json:"available"`
}
