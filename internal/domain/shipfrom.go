package domain

import "strings"

// senderIdentity is the brand persona placed on the label and customs form
type senderIdentity struct {
	Company string
	Contact string
	Email   string
}

// identityRule maps a predicate over the first product to a sender identity.
// Rules are evaluated in order; the first match wins.
type identityRule struct {
	match    func(p Product) bool
	identity senderIdentity
}

func htsPrefixIn(prefixes ...string) func(p Product) bool {
	return func(p Product) bool {
		code := strings.ReplaceAll(p.HTSCode, ".", "")
		if len(code) < 4 {
			return false
		}
		prefix := code[:4]
		for _, candidate := range prefixes {
			if prefix == candidate {
				return true
			}
		}
		return false
	}
}

func descriptionHas(keywords ...string) func(p Product) bool {
	return func(p Product) bool {
		desc := strings.ToLower(p.Description)
		for _, kw := range keywords {
			if strings.Contains(desc, kw) {
				return true
			}
		}
		return false
	}
}

func and(preds ...func(p Product) bool) func(p Product) bool {
	return func(p Product) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

// identityRules routes the first product's HTS prefix (and, for bath goods,
// description keywords) to a sender persona.
var identityRules = []identityRule{
	{ // bedding
		match:    htsPrefixIn("9404"),
		identity: senderIdentity{"Pacific Comfort Goods", "Maria Chen", "orders@pacificcomfort.com"},
	},
	{ // bath and cosmetics, mineral sub-brand first
		match:    and(htsPrefixIn("3304", "3307", "2501"), descriptionHas("dead sea", "mineral", "bath salt")),
		identity: senderIdentity{"Dead Sea Mineral Co", "Adina Rosen", "care@deadseamineral.com"},
	},
	{
		match:    htsPrefixIn("3304", "3307", "2501"),
		identity: senderIdentity{"Pure Glow Wellness", "Sofia Marin", "hello@pureglowwellness.com"},
	},
	{ // women's apparel
		match:    htsPrefixIn("6104", "6204"),
		identity: senderIdentity{"Coastal Apparel Collective", "Dana Whitfield", "support@coastalapparel.com"},
	},
	{ // knit tops and shirts
		match:    htsPrefixIn("6109", "6110", "6105", "6205"),
		identity: senderIdentity{"Urban Thread Supply", "Jesse Park", "orders@urbanthread.com"},
	},
	{ // outerwear
		match:    htsPrefixIn("6201", "6202", "6203"),
		identity: senderIdentity{"Northbound Outfitters", "Casey Brennan", "support@northboundoutfitters.com"},
	},
	{ // electronics
		match:    htsPrefixIn("8471", "8517", "8518"),
		identity: senderIdentity{"Brightline Electronics", "Ravi Patel", "support@brightlineelectronics.com"},
	},
	{ // footwear
		match:    htsPrefixIn("6402", "6403", "6404"),
		identity: senderIdentity{"Stride Footwear Co", "Alex Moreno", "orders@stridefootwear.com"},
	},
	{ // bags and cases
		match:    htsPrefixIn("4202"),
		identity: senderIdentity{"Carryall Goods", "Jamie Fox", "hello@carryallgoods.com"},
	},
}

// defaultIdentity is used when no rule matches or no products are present
var defaultIdentity = senderIdentity{"Home & Wellness Distribution", "Morgan Reyes", "orders@homewellnessdist.com"}

// warehouse holds a physical ship-from location
type warehouse struct {
	Street1 string
	Street2 string
	City    string
	State   string
	Zip     string
	Phone   string
	// companySuffix is appended to the persona company name for this site
	companySuffix string
}

var warehouses = map[string]warehouse{
	"CA": {
		Street1: "2801 E Vernon Ave",
		City:    "Los Angeles",
		State:   "CA",
		Zip:     "90058",
		Phone:   "213-555-0142",
	},
	"NV": {
		Street1:       "4985 S Arville St",
		Street2:       "Ste 102",
		City:          "Las Vegas",
		State:         "NV",
		Zip:           "89118",
		Phone:         "702-555-0178",
		companySuffix: " - NV",
	},
}

const defaultWarehouseState = "CA"

// SelectShipFrom derives the sender address for a shipment. Identity comes
// from the first product's category; the warehouse comes from the declared
// ship-from state, falling back to the recipient's state for domestic
// shipments only.
func SelectShipFrom(in *ShippingInput) Address {
	identity := defaultIdentity
	if len(in.ProductDetails) > 0 {
		first := in.ProductDetails[0]
		for _, rule := range identityRules {
			if rule.match(first) {
				identity = rule.identity
				break
			}
		}
	}

	state := strings.ToUpper(strings.TrimSpace(in.ShipFromState))
	if state == "" && !in.IsInternational() {
		state = strings.ToUpper(strings.TrimSpace(in.Recipient.State))
	}

	wh, ok := warehouses[state]
	if !ok {
		wh = warehouses[defaultWarehouseState]
	}

	return Address{
		Name:    identity.Contact,
		Company: identity.Company + wh.companySuffix,
		Street1: wh.Street1,
		Street2: wh.Street2,
		City:    wh.City,
		State:   wh.State,
		Zip:     wh.Zip,
		Country: HomeCountry,
		Phone:   wh.Phone,
		Email:   identity.Email,
	}
}
