package pooling

import "time"

// Member is a ship entering a pool with its pre-allocation CB.
type Member struct {
	ShipID   string
	CbBefore float64
}

// AllocatedMember is a pool member after redistribution.
type AllocatedMember struct {
	ShipID   string  `json:"shipId"`
	CbBefore float64 `json:"cbBefore"`
	CbAfter  float64 `json:"cbAfter"`
}

// PoolResult is the outcome of allocating a pool. Members are listed in
// allocation order: descending cbBefore, ties in request order.
type PoolResult struct {
	PoolID        int64             `json:"poolId"`
	Year          int               `json:"year"`
	Members       []AllocatedMember `json:"members"`
	TotalCbBefore float64           `json:"totalCbBefore"`
	TotalCbAfter  float64           `json:"totalCbAfter"`
	Valid         bool              `json:"valid"`
}

// Pool groups ships for one reporting year
type Pool struct {
	ID        int64     `json:"id" db:"id"`
	Year      int       `json:"year" db:"year"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// PoolMember is a stored member row; it is never updated after creation
type PoolMember struct {
	PoolID   int64   `json:"poolId" db:"pool_id"`
	ShipID   string  `json:"shipId" db:"ship_id"`
	CbBefore float64 `json:"cbBefore" db:"cb_before"`
	CbAfter  float64 `json:"cbAfter" db:"cb_after"`
}

// PoolDetail is a pool together with its members
type PoolDetail struct {
	Pool
	Members       []PoolMember `json:"members"`
	TotalCbBefore float64      `json:"totalCbBefore"`
	TotalCbAfter  float64      `json:"totalCbAfter"`
}

// MemberRequest is one entry of CreatePoolRequest.Members
type MemberRequest struct {
	ShipID   string   `json:"shipId" binding:"required"`
	CbBefore *float64 `json:"cbBefore" binding:"required"`
}

// CreatePoolRequest is the body of POST /pools
type CreatePoolRequest struct {
	Year    int             `json:"year" binding:"required"`
	Members []MemberRequest `json:"members" binding:"required,dive"`
}
