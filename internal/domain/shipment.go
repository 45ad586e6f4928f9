package domain

import "strings"

// HomeCountry is the domestic country code. Shipments to any other country
// are international and require a customs declaration.
const HomeCountry = "US"

// Address represents a shipping address. Street1, City, Zip and Country are
// always present once normalization completes.
type Address struct {
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// IsComplete reports whether the mandatory address fields are present
func (a Address) IsComplete() bool {
	return a.Street1 != "" && a.City != "" && a.Zip != "" && a.Country != ""
}

// Dimensions represents package dimensions in inches
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultDimensions is used when no dimensions were supplied
func DefaultDimensions() Dimensions {
	return Dimensions{Length: 12, Width: 12, Height: 4}
}

// IsZero reports whether no dimension has been set
func (d Dimensions) IsZero() bool {
	return d.Length == 0 && d.Width == 0 && d.Height == 0
}

// Product represents a line item in a shipment. Value and WeightLbs are
// pointers so that "not supplied" is distinguishable from zero.
type Product struct {
	Description     string   `json:"description"`
	Quantity        int      `json:"quantity"`
	Value           *float64 `json:"value,omitempty"`
	WeightLbs       *float64 `json:"weightLbs,omitempty"`
	HTSCode         string   `json:"htsCode,omitempty"`
	CountryOfOrigin string   `json:"countryOfOrigin,omitempty"`
}

// EffectiveQuantity returns the quantity with the >=1 invariant applied
func (p Product) EffectiveQuantity() int {
	if p.Quantity < 1 {
		return 1
	}
	return p.Quantity
}

// ShippingInput is the canonical shipment record produced by the normalizer.
// It is the single contract every downstream component consumes and is not
// mutated after normalization.
type ShippingInput struct {
	Recipient        Address    `json:"recipient"`
	Sender           *Address   `json:"sender,omitempty"`
	WeightLbs        float64    `json:"weightLbs"`
	Dimensions       Dimensions `json:"dimensions"`
	ProductDetails   []Product  `json:"productDetails"`
	RestrictionFlag  bool       `json:"restrictionFlag"`
	ServiceLevel     string     `json:"serviceLevel,omitempty"`
	ShipFromState    string     `json:"shipFromState,omitempty"`
	PreferredCarrier string     `json:"preferredCarrier,omitempty"`
}

// IsInternational reports whether the shipment leaves the home country
func (in *ShippingInput) IsInternational() bool {
	return IsInternational(in.Recipient.Country)
}

// IsInternational reports whether a destination country is international
func IsInternational(country string) bool {
	if country == "" {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(country), HomeCountry)
}

// WeightData holds the result of weight conversion and buffering
type WeightData struct {
	FullParcelOz     float64 `json:"fullParcelOz"`
	ReportedWeightOz float64 `json:"reportedWeightOz"`
	BufferAmount     float64 `json:"bufferAmount"`
	ProductWeightOz  float64 `json:"productWeightOz"`
}

// Customs declaration content types
const (
	DeclarationGift        = "GIFT"
	DeclarationPersonalUse = "PERSONAL USE"
	DeclarationMerchandise = "MERCHANDISE"
	DeclarationSample      = "SAMPLE"
)

// Customs form types
const (
	FormTypeDomestic = "domestic"
	FormTypeCN22     = "CN22"
	FormTypeCN23     = "CN23"
)

// CustomsItem represents one declared line on a customs form
type CustomsItem struct {
	Description     string  `json:"description"`
	HTSCode         string  `json:"htsCode"`
	Quantity        int     `json:"quantity"`
	Value           float64 `json:"value"`
	WeightOz        float64 `json:"weightOz"`
	CountryOfOrigin string  `json:"countryOfOrigin"`
	Declaration     string  `json:"declaration"`
}

// CustomsDeclaration is the assembled customs paperwork for a shipment
type CustomsDeclaration struct {
	FormType        string        `json:"formType"`
	Items           []CustomsItem `json:"items"`
	TotalValue      float64       `json:"totalValue"`
	ComplianceNotes string        `json:"complianceNotes"`
}

// Rate is a priced carrier+service offer returned by the rate aggregation
// service for a created shipment
type Rate struct {
	ID           string  `json:"id"`
	Carrier      string  `json:"carrier"`
	Service      string  `json:"service"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency,omitempty"`
	DeliveryDays int     `json:"deliveryDays,omitempty"`
}

// ShipmentRecord is a created shipment with its quoted rates
type ShipmentRecord struct {
	ID    string `json:"id"`
	Rates []Rate `json:"rates"`
}

// PurchasedLabel is the result of buying a label for a selected rate
type PurchasedLabel struct {
	TrackingCode string  `json:"trackingCode"`
	LabelURL     string  `json:"labelUrl"`
	Carrier      string  `json:"carrier"`
	Service      string  `json:"service"`
	Rate         float64 `json:"rate"`
}
