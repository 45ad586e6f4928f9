package domain

import "context"

// RateService is the port for the external carrier-rate aggregation service.
// Implementations wrap calls in their own circuit breaker.
type RateService interface {
	// CreateShipment registers a shipment and returns it with quoted rates
	CreateShipment(ctx context.Context, req ShipmentRequest) (*ShipmentRecord, error)

	// GetRates re-fetches rates for an existing shipment
	GetRates(ctx context.Context, shipmentID string) ([]Rate, error)

	// BuyLabel purchases a label for the selected rate
	BuyLabel(ctx context.Context, shipmentID string, rate Rate, insuranceAmount float64) (*PurchasedLabel, error)

	// CreateCustomsInfo registers a customs declaration and returns its id
	CreateCustomsInfo(ctx context.Context, declaration *CustomsDeclaration) (string, error)

	// VerifyAddress verifies an address with the carrier network
	VerifyAddress(ctx context.Context, address Address) (*Address, error)
}

// ShipmentRequest is the payload for creating a shipment with the rate
// aggregation service
type ShipmentRequest struct {
	From          Address
	To            Address
	Parcel        Parcel
	CustomsInfoID string
}

// Parcel describes the physical package sent to the rate service
type Parcel struct {
	Dimensions Dimensions
	WeightOz   float64
}

// Classification is a tariff classification result
type Classification struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// HTSClassifier is the port for the external tariff classification service
type HTSClassifier interface {
	LookupHTS(ctx context.Context, description, destinationCountry string) (*Classification, error)
}

// AddressValidation is the result of validating an address
type AddressValidation struct {
	Validated  Address  `json:"validated"`
	Valid      bool     `json:"valid"`
	Confidence float64  `json:"confidence"`
	Warnings   []string `json:"warnings,omitempty"`
}

// AddressValidator is the port for the external address validation service
type AddressValidator interface {
	ValidateAddress(ctx context.Context, address Address) (*AddressValidation, error)
}
