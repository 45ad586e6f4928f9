// Package normalize turns loosely-structured shipment data into the
// canonical ShippingInput record. Three textual shapes are recognized, in
// order: JSON, CSV/TSV (positional or header mode), and marker-based free
// text. Parsing never fails; unrecognizable input yields a mostly-empty
// record with defaults applied.
package normalize

import (
	_ "embed"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/parcelworks/label-service/internal/domain"
	"github.com/parcelworks/label-service/pkg/logging"
	"github.com/parcelworks/label-service/pkg/metrics"
)

//go:embed schema.json
var inputSchemaJSON string

// Defaults applied whenever a field is absent
const (
	DefaultWeightLbs    = 1.0
	DefaultServiceLevel = "ground"
)

// Parser normalizes raw shipment input
type Parser struct {
	logger  *logging.Logger
	schema  *jsonschema.Schema
	metrics *metrics.Metrics
}

// NewParser creates a Parser with the embedded input schema compiled.
// m may be nil; format counters are then skipped.
func NewParser(logger *logging.Logger, m *metrics.Metrics) *Parser {
	compiler := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(inputSchemaJSON))
	if err != nil {
		panic("normalize: embedded schema is not valid JSON: " + err.Error())
	}
	if err := compiler.AddResource("shipping-input.json", doc); err != nil {
		panic("normalize: cannot register embedded schema: " + err.Error())
	}
	schema := compiler.MustCompile("shipping-input.json")

	return &Parser{
		logger:  logger.WithComponent("normalizer"),
		schema:  schema,
		metrics: m,
	}
}

// Parse produces a canonical ShippingInput from raw text. Malformed JSON
// silently falls through to the CSV/free-text heuristics.
func (p *Parser) Parse(raw string) *domain.ShippingInput {
	raw = strings.TrimSpace(raw)

	if in, ok := p.parseJSON(raw); ok {
		p.logger.Debug("Parsed input as JSON")
		p.recordFormat("json")
		return finalize(in)
	}

	if strings.ContainsAny(raw, ",\t") {
		if in, ok := p.parseDelimited(raw); ok {
			p.logger.Debug("Parsed input as delimited text")
			p.recordFormat("delimited")
			return finalize(in)
		}
	}

	p.logger.Debug("Parsed input as free text")
	p.recordFormat("freetext")
	return finalize(p.parseFreeText(raw))
}

func (p *Parser) recordFormat(format string) {
	if p.metrics != nil {
		p.metrics.RecordNormalizerFormat(format)
	}
}

type jsonAddress struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (a *jsonAddress) toDomain() domain.Address {
	return domain.Address{
		Name:    a.Name,
		Company: a.Company,
		Street1: a.Street1,
		Street2: a.Street2,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
		Phone:   a.Phone,
		Email:   a.Email,
	}
}

type jsonProduct struct {
	Description     string   `json:"description"`
	Quantity        int      `json:"quantity"`
	Value           *float64 `json:"value"`
	WeightLbs       *float64 `json:"weightLbs"`
	HTSCode         string   `json:"htsCode"`
	CountryOfOrigin string   `json:"countryOfOrigin"`
}

type jsonInput struct {
	To               *jsonAddress       `json:"to"`
	Recipient        *jsonAddress       `json:"recipient"`
	From             *jsonAddress       `json:"from"`
	Weight           *float64           `json:"weight"`
	WeightLbs        *float64           `json:"weightLbs"`
	Dimensions       *domain.Dimensions `json:"dimensions"`
	Products         []jsonProduct      `json:"products"`
	RestrictionFlag  bool               `json:"restrictionFlag"`
	ServiceLevel     string             `json:"serviceLevel"`
	ShipFromState    string             `json:"shipFromState"`
	PreferredCarrier string             `json:"preferredCarrier"`
}

func (p *Parser) parseJSON(raw string) (*domain.ShippingInput, bool) {
	if !strings.HasPrefix(raw, "{") {
		return nil, false
	}

	instance, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, false
	}
	if err := p.schema.Validate(instance); err != nil {
		p.logger.WithError(err).Debug("JSON input failed schema validation, falling through")
		return nil, false
	}

	var parsed jsonInput
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, false
	}

	recipient := parsed.To
	if recipient == nil {
		recipient = parsed.Recipient
	}
	if recipient == nil {
		return nil, false
	}

	in := &domain.ShippingInput{
		Recipient:        recipient.toDomain(),
		RestrictionFlag:  parsed.RestrictionFlag,
		ServiceLevel:     parsed.ServiceLevel,
		ShipFromState:    parsed.ShipFromState,
		PreferredCarrier: parsed.PreferredCarrier,
	}

	if parsed.From != nil {
		sender := parsed.From.toDomain()
		in.Sender = &sender
	}
	if parsed.WeightLbs != nil {
		in.WeightLbs = *parsed.WeightLbs
	} else if parsed.Weight != nil {
		in.WeightLbs = *parsed.Weight
	}
	if parsed.Dimensions != nil {
		in.Dimensions = *parsed.Dimensions
	}
	for _, jp := range parsed.Products {
		in.ProductDetails = append(in.ProductDetails, domain.Product{
			Description:     jp.Description,
			Quantity:        jp.Quantity,
			Value:           jp.Value,
			WeightLbs:       jp.WeightLbs,
			HTSCode:         jp.HTSCode,
			CountryOfOrigin: jp.CountryOfOrigin,
		})
	}

	return in, true
}

// finalize applies defaults for absent fields and enforces record
// invariants. The returned record is treated as immutable downstream.
func finalize(in *domain.ShippingInput) *domain.ShippingInput {
	if in == nil {
		in = &domain.ShippingInput{}
	}
	if in.Dimensions.IsZero() {
		in.Dimensions = domain.DefaultDimensions()
	}
	if in.WeightLbs <= 0 {
		in.WeightLbs = DefaultWeightLbs
	}
	if in.ServiceLevel == "" {
		in.ServiceLevel = DefaultServiceLevel
	}
	if in.Recipient.Country == "" {
		in.Recipient.Country = domain.HomeCountry
	}
	for i := range in.ProductDetails {
		if in.ProductDetails[i].Quantity < 1 {
			in.ProductDetails[i].Quantity = 1
		}
	}
	return in
}

// ParseDimensions accepts "L-W-H" or "LxWxH" dimension strings
func ParseDimensions(s string) (domain.Dimensions, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Dimensions{}, false
	}

	normalized := strings.NewReplacer("x", "-", "X", "-").Replace(s)
	parts := strings.Split(normalized, "-")
	if len(parts) != 3 {
		return domain.Dimensions{}, false
	}

	values := make([]float64, 3)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || v <= 0 {
			return domain.Dimensions{}, false
		}
		values[i] = v
	}

	return domain.Dimensions{Length: values[0], Width: values[1], Height: values[2]}, true
}

// ParseWeight parses a weight string, stripping an "lbs" suffix
func ParseWeight(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "lbs")
	s = strings.TrimSuffix(s, "lb")
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}
