package compliance

// Compute derives the compliance balance of a ship-year.
//
//	energyInScope = fuelConsumption × conversionFactor
//	cbGCO2eq      = (targetIntensity − actualIntensity) × energyInScope
//
// No rounding is applied. A positive result is a surplus, a negative one a deficit.
func Compute(shipID string, year int, actualIntensity, fuelConsumption, targetIntensity, conversionFactor float64) ComplianceBalance {
	energyInScope := fuelConsumption * conversionFactor

	return ComplianceBalance{
		ShipID:          shipID,
		Year:            year,
		TargetIntensity: targetIntensity,
		ActualIntensity: actualIntensity,
		EnergyInScope:   energyInScope,
		CBGCO2eq:        (targetIntensity - actualIntensity) * energyInScope,
	}
}

// Calculator binds Compute to a fixed pair of regulatory constants.
type Calculator struct {
	TargetIntensity  float64
	ConversionFactor float64
}

// NewCalculator creates a calculator for the given target and conversion factor
func NewCalculator(targetIntensity, conversionFactor float64) Calculator {
	return Calculator{
		TargetIntensity:  targetIntensity,
		ConversionFactor: conversionFactor,
	}
}

func (c Calculator) Compute(shipID string, year int, actualIntensity, fuelConsumption float64) ComplianceBalance {
	return Compute(shipID, year, actualIntensity, fuelConsumption, c.TargetIntensity, c.ConversionFactor)
}
