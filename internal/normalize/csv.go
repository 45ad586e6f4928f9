package normalize

import (
	"encoding/csv"
	"strings"

	"github.com/parcelworks/label-service/internal/domain"
)

// positionalFieldCount is the width of the positional TSV export format
const positionalFieldCount = 16

// Positional column indexes for the 16-column tab-separated export format
const (
	colOriginState = iota
	colPreferredCarrier
	colCompany
	colName
	colPhone
	colEmail
	colStreet1
	colStreet2
	colCity
	colState
	colZip
	colCountry
	colRestrictionFlag
	colDimensions
	colWeight
	colProductDetails
)

// headerSynonyms maps header-name variants to canonical field keys
var headerSynonyms = map[string]string{
	"name":             "name",
	"contact":          "name",
	"company":          "company",
	"street":           "street1",
	"street1":          "street1",
	"address":          "street1",
	"address1":         "street1",
	"street2":          "street2",
	"address2":         "street2",
	"city":             "city",
	"state":            "state",
	"province":         "state",
	"zip":              "zip",
	"zipcode":          "zip",
	"postal":           "zip",
	"postalcode":       "zip",
	"country":          "country",
	"phone":            "phone",
	"email":            "email",
	"weight":           "weight",
	"weightlbs":        "weight",
	"dimensions":       "dimensions",
	"restriction":      "restrictionflag",
	"restrictionflag":  "restrictionflag",
	"service":          "servicelevel",
	"servicelevel":     "servicelevel",
	"origin":           "shipfromstate",
	"originstate":      "shipfromstate",
	"shipfromstate":    "shipfromstate",
	"carrier":          "preferredcarrier",
	"preferredcarrier": "preferredcarrier",
	"product":          "products",
	"products":         "products",
	"productdetails":   "products",
}

// parseDelimited handles both CSV/TSV sub-modes: a single-line positional
// 16-column tab-separated row, and a two-line header/value layout.
func (p *Parser) parseDelimited(raw string) (*domain.ShippingInput, bool) {
	lines := nonEmptyLines(raw)
	if len(lines) == 0 {
		return nil, false
	}

	if len(lines) == 1 {
		fields := strings.Split(lines[0], "\t")
		if len(fields) > 10 {
			return p.parsePositional(fields), true
		}
	}

	if len(lines) >= 2 {
		return p.parseHeaderMode(lines)
	}

	return nil, false
}

// parsePositional maps the fixed 16-column layout. Missing trailing columns
// are tolerated; extra columns are ignored.
func (p *Parser) parsePositional(fields []string) *domain.ShippingInput {
	field := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}

	in := &domain.ShippingInput{
		Recipient: domain.Address{
			Company: field(colCompany),
			Name:    field(colName),
			Phone:   field(colPhone),
			Email:   field(colEmail),
			Street1: field(colStreet1),
			Street2: field(colStreet2),
			City:    field(colCity),
			State:   field(colState),
			Zip:     field(colZip),
			Country: field(colCountry),
		},
		ShipFromState:    field(colOriginState),
		PreferredCarrier: field(colPreferredCarrier),
		RestrictionFlag:  parseBool(field(colRestrictionFlag)),
	}

	if dims, ok := ParseDimensions(field(colDimensions)); ok {
		in.Dimensions = dims
	}
	if weight, ok := ParseWeight(field(colWeight)); ok {
		in.WeightLbs = weight
	}
	in.ProductDetails = ParseProductDetails(field(colProductDetails))

	return in
}

// parseHeaderMode reads a header line and a value line, matching headers
// case-insensitively with common synonyms.
func (p *Parser) parseHeaderMode(lines []string) (*domain.ShippingInput, bool) {
	delimiter := ','
	if strings.Contains(lines[0], "\t") {
		delimiter = '\t'
	}

	reader := csv.NewReader(strings.NewReader(lines[0] + "\n" + lines[1]))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil || len(records) < 2 {
		return nil, false
	}

	headers, values := records[0], records[1]
	fields := make(map[string]string, len(headers))
	for i, header := range headers {
		if i >= len(values) {
			break
		}
		key := canonicalHeader(header)
		if key == "" {
			continue
		}
		fields[key] = strings.TrimSpace(values[i])
	}

	if len(fields) == 0 {
		return nil, false
	}

	in := &domain.ShippingInput{
		Recipient: domain.Address{
			Name:    fields["name"],
			Company: fields["company"],
			Street1: fields["street1"],
			Street2: fields["street2"],
			City:    fields["city"],
			State:   fields["state"],
			Zip:     fields["zip"],
			Country: fields["country"],
			Phone:   fields["phone"],
			Email:   fields["email"],
		},
		ShipFromState:    fields["shipfromstate"],
		PreferredCarrier: fields["preferredcarrier"],
		ServiceLevel:     fields["servicelevel"],
		RestrictionFlag:  parseBool(fields["restrictionflag"]),
	}

	if dims, ok := ParseDimensions(fields["dimensions"]); ok {
		in.Dimensions = dims
	}
	if weight, ok := ParseWeight(fields["weight"]); ok {
		in.WeightLbs = weight
	}
	in.ProductDetails = ParseProductDetails(fields["products"])

	return in, true
}

func canonicalHeader(header string) string {
	key := strings.ToLower(strings.TrimSpace(header))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	return headerSynonyms[key]
}

func nonEmptyLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
