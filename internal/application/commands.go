package application

import "github.com/parcelworks/label-service/internal/domain"

// CreateLabelCommand is the input for the end-to-end label purchase flow.
// InputData accepts JSON, CSV/TSV, or marker-based free text.
type CreateLabelCommand struct {
	InputData        string  `json:"inputData" binding:"required"`
	ShipFromOverride string  `json:"shipFromOverride,omitempty"`
	ServiceLevel     string  `json:"serviceLevel,omitempty" binding:"omitempty,oneof=ground express priority"`
	InsuranceAmount  float64 `json:"insuranceAmount,omitempty" binding:"omitempty,gte=0"`
}

// ValidateAddressCommand validates a recipient and optionally a sender
type ValidateAddressCommand struct {
	Address domain.Address  `json:"address" binding:"required"`
	Sender  *domain.Address `json:"sender,omitempty"`
}

// CalculateCustomsCommand builds a customs declaration without purchasing
type CalculateCustomsCommand struct {
	Products           []domain.Product `json:"products"`
	DestinationCountry string           `json:"destinationCountry" binding:"required"`
	RestrictionFlag    bool             `json:"restrictionFlag"`
}

// ConvertWeightCommand runs the weight engine in isolation
type ConvertWeightCommand struct {
	WeightLbs float64          `json:"weightLbs" binding:"required,gt=0"`
	Products  []domain.Product `json:"products"`
}

// SelectCarrierCommand returns the pre-quote carrier heuristic result
type SelectCarrierCommand struct {
	DestinationCountry string `json:"destinationCountry" binding:"required"`
	ServiceLevel       string `json:"serviceLevel,omitempty"`
}
