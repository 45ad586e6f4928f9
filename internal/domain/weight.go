package domain

// Weight conversion constants
const (
	OuncesPerPound          = 16.0
	DefaultProductWeightLbs = 1.5

	// Packaging buffer shaved off the true weight before reporting to the
	// carrier. Carriers bill on declared weight, so removing a packaging
	// allowance reduces cost while staying within carrier tolerance bands.
	packagingBufferRatio = 0.15
	minBufferOz          = 0.5
	minReportedOz        = 1.0
)

// ConvertAndBuffer converts a base weight in pounds to ounces, adds the
// aggregate product weight, and subtracts the packaging buffer to produce
// the weight reported to the carrier. ReportedWeightOz is never below 1 oz
// and never above FullParcelOz.
func ConvertAndBuffer(weightLbs float64, products []Product) WeightData {
	baseOz := weightLbs * OuncesPerPound

	productOz := 0.0
	for _, p := range products {
		perUnitLbs := DefaultProductWeightLbs
		if p.WeightLbs != nil {
			perUnitLbs = *p.WeightLbs
		}
		productOz += perUnitLbs * OuncesPerPound * float64(p.EffectiveQuantity())
	}

	fullOz := baseOz + productOz

	buffer := fullOz * packagingBufferRatio
	if buffer < minBufferOz {
		buffer = minBufferOz
	}

	// The 1 oz floor is mandatory and applied last; it can only exceed
	// FullParcelOz for degenerate sub-ounce parcels.
	reported := fullOz - buffer
	if reported < minReportedOz {
		reported = minReportedOz
	}

	return WeightData{
		FullParcelOz:     fullOz,
		ReportedWeightOz: reported,
		BufferAmount:     buffer,
		ProductWeightOz:  productOz,
	}
}
