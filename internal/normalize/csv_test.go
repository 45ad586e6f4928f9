package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelworks/label-service/internal/domain"
)

// TestParsePositional tests the single-line 16-column export format
func TestParsePositional(t *testing.T) {
	parser := newTestParser(t)

	t.Run("full row", func(t *testing.T) {
		fields := []string{
			"NV",                  // origin state
			"FedEx",               // preferred carrier
			"Fischer GmbH",        // company
			"Lena Fischer",        // name
			"4915112345678",       // phone
			"lena@example.de",     // email
			"Torstrasse 140",      // street1
			"Apt 3",               // street2
			"Berlin",              // city
			"BE",                  // state
			"10119",               // zip
			"DE",                  // country
			"true",                // restriction flag
			"10x8x4",              // dimensions
			"2.5 lbs",             // weight
			"(2) Denim Jeans HTS Code: 6204.62.8011 ($50 each)",
		}

		in := parser.Parse(strings.Join(fields, "\t"))

		assert.Equal(t, "NV", in.ShipFromState)
		assert.Equal(t, "FedEx", in.PreferredCarrier)
		assert.Equal(t, "Fischer GmbH", in.Recipient.Company)
		assert.Equal(t, "Lena Fischer", in.Recipient.Name)
		assert.Equal(t, "Torstrasse 140", in.Recipient.Street1)
		assert.Equal(t, "Apt 3", in.Recipient.Street2)
		assert.Equal(t, "Berlin", in.Recipient.City)
		assert.Equal(t, "10119", in.Recipient.Zip)
		assert.Equal(t, "DE", in.Recipient.Country)
		assert.True(t, in.RestrictionFlag)
		assert.Equal(t, domain.Dimensions{Length: 10, Width: 8, Height: 4}, in.Dimensions)
		assert.Equal(t, 2.5, in.WeightLbs)

		require.Len(t, in.ProductDetails, 1)
		p := in.ProductDetails[0]
		assert.Equal(t, 2, p.Quantity)
		assert.Equal(t, "6204.62.8011", p.HTSCode)
		require.NotNil(t, p.Value)
		assert.Equal(t, 50.0, *p.Value)
	})

	t.Run("missing trailing columns are tolerated", func(t *testing.T) {
		fields := []string{"CA", "", "", "Dana Lee", "", "", "1 Main St", "", "Austin", "TX", "78701", "US"}

		in := parser.Parse(strings.Join(fields, "\t"))

		assert.Equal(t, "Austin", in.Recipient.City)
		assert.Equal(t, DefaultWeightLbs, in.WeightLbs)
		assert.Equal(t, domain.DefaultDimensions(), in.Dimensions)
		assert.Empty(t, in.ProductDetails)
	})

	t.Run("row with ten or fewer tab fields is not positional", func(t *testing.T) {
		in := parser.Parse("a\tb\tc\td")
		assert.Empty(t, in.ShipFromState)
	})
}

// TestParseHeaderMode tests the header/value layout
func TestParseHeaderMode(t *testing.T) {
	parser := newTestParser(t)

	t.Run("comma separated with synonyms", func(t *testing.T) {
		raw := "Name,Address,City,Province,Postal Code,Country,Weight\n" +
			"Marie Tremblay,12 Rue Principale,Montreal,QC,H2X 1Y4,CA,3 lbs"

		in := parser.Parse(raw)

		assert.Equal(t, "Marie Tremblay", in.Recipient.Name)
		assert.Equal(t, "12 Rue Principale", in.Recipient.Street1)
		assert.Equal(t, "Montreal", in.Recipient.City)
		assert.Equal(t, "QC", in.Recipient.State)
		assert.Equal(t, "H2X 1Y4", in.Recipient.Zip)
		assert.Equal(t, "CA", in.Recipient.Country)
		assert.Equal(t, 3.0, in.WeightLbs)
	})

	t.Run("tab separated", func(t *testing.T) {
		raw := "name\tstreet1\tcity\tstate\tzip\tcountry\n" +
			"Dana Lee\t1 Main St\tAustin\tTX\t78701\tUS"

		in := parser.Parse(raw)

		assert.Equal(t, "Dana Lee", in.Recipient.Name)
		assert.Equal(t, "78701", in.Recipient.Zip)
	})

	t.Run("headers are case and separator insensitive", func(t *testing.T) {
		raw := "NAME,Street_1,CITY,Ship From State,Preferred-Carrier\n" +
			"Dana Lee,1 Main St,Austin,NV,USPS"

		in := parser.Parse(raw)

		assert.Equal(t, "Dana Lee", in.Recipient.Name)
		assert.Equal(t, "NV", in.ShipFromState)
		assert.Equal(t, "USPS", in.PreferredCarrier)
	})

	t.Run("service and restriction columns", func(t *testing.T) {
		raw := "street1,city,zip,country,service,restriction\n" +
			"1 Main St,Austin,78701,US,express,yes"

		in := parser.Parse(raw)

		assert.Equal(t, "express", in.ServiceLevel)
		assert.True(t, in.RestrictionFlag)
	})

	t.Run("unrecognized headers fall through to free text", func(t *testing.T) {
		in := parser.Parse("foo,bar\nbaz,qux")
		assert.Empty(t, in.Recipient.Street1)
	})
}
