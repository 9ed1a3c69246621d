package compliance

import "time"

// ComplianceBalance is the computed CB of one ship for one reporting year.
// At most one current value exists per (ShipID, Year); recomputation replaces it.
type ComplianceBalance struct {
	ShipID          string     `json:"shipId" db:"ship_id"`
	Year            int        `json:"year" db:"year"`
	TargetIntensity float64    `json:"targetIntensity" db:"target_intensity"` // gCO2e/MJ
	ActualIntensity float64    `json:"actualIntensity" db:"actual_intensity"` // gCO2e/MJ
	EnergyInScope   float64    `json:"energyInScope" db:"energy_in_scope"`    // MJ
	CBGCO2eq        float64    `json:"cbGCO2eq" db:"cb_gco2eq"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// AdjustedComplianceBalance is the stored CB plus the ship's available banked surplus.
type AdjustedComplianceBalance struct {
	ShipID           string  `json:"shipId"`
	Year             int     `json:"year"`
	CBGCO2eq         float64 `json:"cbGCO2eq"`
	BankedApplied    float64 `json:"bankedApplied"`
	AdjustedCBGCO2eq float64 `json:"adjustedCbGCO2eq"`
}

// ComputeRequest is the body of POST /compliance/cb
type ComputeRequest struct {
	ShipID          string   `json:"shipId" binding:"required"`
	Year            int      `json:"year" binding:"required"`
	ActualIntensity *float64 `json:"actualIntensity" binding:"required"`
	FuelConsumption *float64 `json:"fuelConsumption" binding:"required"`
}
