package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/parcelworks/label-service/internal/domain"
)

// Pattern extraction for free-text product descriptions embedded in the
// positional format, e.g. `(2) Dead Sea Bath Salt HTS Code: 2501.00.9000 ($38 each)`
var (
	productQuantityRe = regexp.MustCompile(`^\s*\((\d+)\)`)
	productHTSRe      = regexp.MustCompile(`(?i)HTS\s*Code:\s*([0-9][0-9.]*)`)
	productPriceRe    = regexp.MustCompile(`\$(\d+(?:\.\d+)?)`)

	// segments stripped from the text to leave the bare description
	stripHTSRe   = regexp.MustCompile(`(?i)HTS\s*Code:\s*[0-9][0-9.]*`)
	stripPriceRe = regexp.MustCompile(`\(?\$\d+(?:\.\d+)?(?:\s*each)?\)?`)
)

// ParseProductDetails parses a free-text product details string into
// products. Multiple products are separated by semicolons.
func ParseProductDetails(s string) []domain.Product {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var products []domain.Product
	for _, segment := range strings.Split(s, ";") {
		if p, ok := parseProductString(segment); ok {
			products = append(products, p)
		}
	}
	return products
}

func parseProductString(s string) (domain.Product, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Product{}, false
	}

	p := domain.Product{Quantity: 1}

	if m := productQuantityRe.FindStringSubmatch(s); m != nil {
		if qty, err := strconv.Atoi(m[1]); err == nil && qty >= 1 {
			p.Quantity = qty
		}
	}
	if m := productHTSRe.FindStringSubmatch(s); m != nil {
		p.HTSCode = strings.TrimSuffix(m[1], ".")
	}
	if m := productPriceRe.FindStringSubmatch(s); m != nil {
		if value, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.Value = &value
		}
	}

	desc := productQuantityRe.ReplaceAllString(s, "")
	desc = stripHTSRe.ReplaceAllString(desc, "")
	desc = stripPriceRe.ReplaceAllString(desc, "")
	p.Description = strings.Trim(strings.TrimSpace(desc), ",-: ")

	if p.Description == "" && p.HTSCode == "" {
		return domain.Product{}, false
	}
	return p, true
}
