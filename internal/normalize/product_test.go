package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseProductDetails tests free-text product extraction
func TestParseProductDetails(t *testing.T) {
	t.Run("quantity, code and price", func(t *testing.T) {
		products := ParseProductDetails("(2) Dead Sea Bath Salt HTS Code: 2501.00.9000 ($38 each)")

		require.Len(t, products, 1)
		p := products[0]
		assert.Equal(t, 2, p.Quantity)
		assert.Equal(t, "2501.00.9000", p.HTSCode)
		assert.Equal(t, "Dead Sea Bath Salt", p.Description)
		require.NotNil(t, p.Value)
		assert.Equal(t, 38.0, *p.Value)
	})

	t.Run("multiple products split on semicolons", func(t *testing.T) {
		products := ParseProductDetails("(1) Denim Jeans HTS Code: 6204.62.8011 ($50 each); (3) Cotton T-Shirt ($20 each)")

		require.Len(t, products, 2)
		assert.Equal(t, "Denim Jeans", products[0].Description)
		assert.Equal(t, 3, products[1].Quantity)
		assert.Empty(t, products[1].HTSCode)
	})

	t.Run("bare description", func(t *testing.T) {
		products := ParseProductDetails("Wool Scarf")

		require.Len(t, products, 1)
		assert.Equal(t, "Wool Scarf", products[0].Description)
		assert.Equal(t, 1, products[0].Quantity)
		assert.Nil(t, products[0].Value)
	})

	t.Run("decimal price", func(t *testing.T) {
		products := ParseProductDetails("Candle $12.50")

		require.Len(t, products, 1)
		require.NotNil(t, products[0].Value)
		assert.Equal(t, 12.5, *products[0].Value)
	})

	t.Run("hts code is case-insensitive and trailing dot trimmed", func(t *testing.T) {
		products := ParseProductDetails("Blanket hts code: 9404.90.2000.")

		require.Len(t, products, 1)
		assert.Equal(t, "9404.90.2000", products[0].HTSCode)
	})

	t.Run("empty and blank segments yield nothing", func(t *testing.T) {
		assert.Nil(t, ParseProductDetails(""))
		assert.Nil(t, ParseProductDetails("  ;  ; "))
	})
}
