package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func inputWithProduct(htsCode, description string) *ShippingInput {
	return &ShippingInput{
		Recipient:      Address{City: "Austin", State: "TX", Country: "US"},
		ProductDetails: []Product{{Description: description, HTSCode: htsCode, Quantity: 1}},
	}
}

// TestSelectShipFromIdentity tests persona routing by product category
func TestSelectShipFromIdentity(t *testing.T) {
	tests := []struct {
		name        string
		htsCode     string
		description string
		wantCompany string
	}{
		{"bedding", "9404.90.2000", "Weighted Blanket", "Pacific Comfort Goods"},
		{"mineral bath goods", "2501.00.9000", "Dead Sea Bath Salt", "Dead Sea Mineral Co"},
		{"cosmetics without mineral keywords", "3304.99.5000", "Facial Moisturizer", "Pure Glow Wellness"},
		{"womens apparel", "6204.62.8011", "Denim Jeans", "Coastal Apparel Collective"},
		{"knit tops", "6109.10.0012", "Cotton T-Shirt", "Urban Thread Supply"},
		{"outerwear", "6202.93.4800", "Rain Jacket", "Northbound Outfitters"},
		{"electronics", "8518.30.2000", "Wireless Headphones", "Brightline Electronics"},
		{"footwear", "6403.99.9065", "Leather Boots", "Stride Footwear Co"},
		{"bags", "4202.92.3120", "Canvas Tote", "Carryall Goods"},
		{"unmatched category", "0101.21.0000", "Live Horse", "Home & Wellness Distribution"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := inputWithProduct(tt.htsCode, tt.description)
			in.ShipFromState = "CA"
			sender := SelectShipFrom(in)
			assert.Equal(t, tt.wantCompany, sender.Company)
		})
	}
}

// TestSelectShipFromWarehouse tests warehouse resolution
func TestSelectShipFromWarehouse(t *testing.T) {
	t.Run("explicit CA origin", func(t *testing.T) {
		in := inputWithProduct("6109.10.0012", "T-Shirt")
		in.ShipFromState = "CA"

		sender := SelectShipFrom(in)

		assert.Equal(t, "2801 E Vernon Ave", sender.Street1)
		assert.Equal(t, "Los Angeles", sender.City)
		assert.Equal(t, "90058", sender.Zip)
		assert.Equal(t, HomeCountry, sender.Country)
	})

	t.Run("NV origin appends company suffix", func(t *testing.T) {
		in := inputWithProduct("6109.10.0012", "T-Shirt")
		in.ShipFromState = "nv"

		sender := SelectShipFrom(in)

		assert.Equal(t, "4985 S Arville St", sender.Street1)
		assert.Equal(t, "Las Vegas", sender.City)
		assert.Equal(t, "Urban Thread Supply - NV", sender.Company)
	})

	t.Run("domestic shipment falls back to recipient state", func(t *testing.T) {
		in := &ShippingInput{Recipient: Address{City: "Reno", State: "NV", Country: "US"}}

		sender := SelectShipFrom(in)

		assert.Equal(t, "NV", sender.State)
	})

	t.Run("international shipment never uses recipient state", func(t *testing.T) {
		in := &ShippingInput{Recipient: Address{City: "Toronto", State: "ON", Country: "CA"}}

		sender := SelectShipFrom(in)

		assert.Equal(t, defaultWarehouseState, sender.State)
	})

	t.Run("unknown origin state defaults to CA", func(t *testing.T) {
		in := inputWithProduct("6109.10.0012", "T-Shirt")
		in.ShipFromState = "TX"

		sender := SelectShipFrom(in)

		assert.Equal(t, "CA", sender.State)
	})

	t.Run("no products uses default identity", func(t *testing.T) {
		in := &ShippingInput{Recipient: Address{City: "Austin", State: "TX", Country: "US"}}

		sender := SelectShipFrom(in)

		assert.Equal(t, "Home & Wellness Distribution", sender.Company)
		assert.Equal(t, "Morgan Reyes", sender.Name)
	})
}
