package domain

import "strings"

// CarrierEstimate is a pre-quote carrier/service suggestion used for
// informational responses before real rates exist
type CarrierEstimate struct {
	Carrier       string `json:"carrier"`
	Service       string `json:"service"`
	EstimatedDays string `json:"estimatedDays"`
	CostTier      string `json:"costTier"`
}

var euCountries = map[string]bool{
	"AT": true, "BE": true, "BG": true, "HR": true, "CY": true, "CZ": true,
	"DK": true, "EE": true, "FI": true, "FR": true, "DE": true, "GR": true,
	"HU": true, "IE": true, "IT": true, "LV": true, "LT": true, "LU": true,
	"MT": true, "NL": true, "PL": true, "PT": true, "RO": true, "SK": true,
	"SI": true, "ES": true, "SE": true,
}

// domesticEstimates maps a requested service tier to a fixed carrier choice
var domesticEstimates = map[string]CarrierEstimate{
	"express":  {Carrier: "FedEx", Service: "FEDEX_2_DAY", EstimatedDays: "2", CostTier: "premium"},
	"priority": {Carrier: "USPS", Service: "Priority", EstimatedDays: "1-3", CostTier: "moderate"},
	"ground":   {Carrier: "USPS", Service: "GroundAdvantage", EstimatedDays: "3-5", CostTier: "economy"},
}

// EstimateCarrier picks a likely carrier/service pair by destination region
// before any real rates are known. International routing ignores the
// requested tier; domestic routing branches on it.
func EstimateCarrier(destinationCountry, serviceLevel string) CarrierEstimate {
	country := strings.ToUpper(strings.TrimSpace(destinationCountry))

	if IsInternational(country) {
		switch {
		case euCountries[country]:
			return CarrierEstimate{Carrier: "DHL", Service: "ExpressWorldwide", EstimatedDays: "3-5", CostTier: "premium"}
		case country == "CA":
			return CarrierEstimate{Carrier: "UPS", Service: "Standard", EstimatedDays: "4-7", CostTier: "moderate"}
		default:
			return CarrierEstimate{Carrier: "USPS", Service: "PriorityMailInternational", EstimatedDays: "6-10", CostTier: "economy"}
		}
	}

	if est, ok := domesticEstimates[strings.ToLower(strings.TrimSpace(serviceLevel))]; ok {
		return est
	}
	return domesticEstimates["ground"]
}

// carrierVariants maps a caller-declared carrier preference to the name
// fragments that identify it in returned rates
var carrierVariants = map[string][]string{
	"FEDEX": {"fedex"},
	"UPS":   {"ups", "upsdap"},
	"USPS":  {"usps", "postal"},
	"DHL":   {"dhl"},
}

// fedexServiceRank orders FedEx services by preference: the priority-express
// tier beats generic international priority, which beats everything else.
func fedexServiceRank(service string) int {
	s := strings.ToUpper(service)
	switch {
	case strings.Contains(s, "PRIORITY_EXPRESS"):
		return 0
	case strings.Contains(s, "PRIORITY"):
		return 1
	default:
		return 2
	}
}

// SelectRate chooses a rate from the list returned by the rate service. A
// declared carrier preference is matched case-insensitively against known
// carrier-name variants; FedEx gets service-tier preference ordering. When
// the preferred carrier has no matching rate, or none was declared, the
// cheapest rate overall is selected. Real-time quotes vary by carrier API
// availability, so selection degrades to cheapest rather than failing.
func SelectRate(rates []Rate, preferredCarrier string) (Rate, bool) {
	if len(rates) == 0 {
		return Rate{}, false
	}

	preferred := strings.ToUpper(strings.TrimSpace(preferredCarrier))
	if preferred != "" {
		variants, ok := carrierVariants[preferred]
		if !ok {
			variants = []string{strings.ToLower(preferred)}
		}

		matches := make([]Rate, 0, len(rates))
		for _, rate := range rates {
			carrier := strings.ToLower(rate.Carrier)
			for _, variant := range variants {
				if strings.Contains(carrier, variant) {
					matches = append(matches, rate)
					break
				}
			}
		}

		if len(matches) > 0 {
			if preferred == "FEDEX" {
				return bestFedexRate(matches), true
			}
			return cheapest(matches), true
		}
	}

	return cheapest(rates), true
}

func bestFedexRate(rates []Rate) Rate {
	best := rates[0]
	bestRank := fedexServiceRank(best.Service)
	for _, rate := range rates[1:] {
		rank := fedexServiceRank(rate.Service)
		if rank < bestRank || (rank == bestRank && rate.Amount < best.Amount) {
			best = rate
			bestRank = rank
		}
	}
	return best
}

func cheapest(rates []Rate) Rate {
	best := rates[0]
	for _, rate := range rates[1:] {
		if rate.Amount < best.Amount {
			best = rate
		}
	}
	return best
}
