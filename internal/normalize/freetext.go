package normalize

import (
	"strings"

	"github.com/parcelworks/label-service/internal/domain"
)

// parseFreeText scans lines for To:/From:/Weight:/Dimensions:/RestrictionFlag:
// markers. Address payloads are comma-split positionally as
// name, street1, city, state, zip, country, phone.
func (p *Parser) parseFreeText(raw string) *domain.ShippingInput {
	in := &domain.ShippingInput{}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case hasMarker(line, "to:"):
			in.Recipient = parsePositionalAddress(markerPayload(line, "to:"))
		case hasMarker(line, "from:"):
			sender := parsePositionalAddress(markerPayload(line, "from:"))
			in.Sender = &sender
		case hasMarker(line, "baseweight:"):
			if weight, ok := ParseWeight(markerPayload(line, "baseweight:")); ok {
				in.WeightLbs = weight
			}
		case hasMarker(line, "weight:"):
			if weight, ok := ParseWeight(markerPayload(line, "weight:")); ok {
				in.WeightLbs = weight
			}
		case hasMarker(line, "dimensions:"):
			if dims, ok := ParseDimensions(markerPayload(line, "dimensions:")); ok {
				in.Dimensions = dims
			}
		case hasMarker(line, "restrictionflag:"):
			in.RestrictionFlag = parseBool(markerPayload(line, "restrictionflag:"))
		}
	}

	return in
}

func hasMarker(line, marker string) bool {
	return strings.HasPrefix(strings.ToLower(line), marker)
}

func markerPayload(line, marker string) string {
	return strings.TrimSpace(line[len(marker):])
}

func parsePositionalAddress(payload string) domain.Address {
	parts := strings.Split(payload, ",")
	part := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}

	return domain.Address{
		Name:    part(0),
		Street1: part(1),
		City:    part(2),
		State:   part(3),
		Zip:     part(4),
		Country: part(5),
		Phone:   part(6),
	}
}
