package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 {
	return &v
}

// TestConvertAndBuffer tests weight conversion and packaging buffering
func TestConvertAndBuffer(t *testing.T) {
	t.Run("base weight only", func(t *testing.T) {
		w := ConvertAndBuffer(10, nil)

		assert.InDelta(t, 160.0, w.FullParcelOz, 0.001)
		assert.InDelta(t, 24.0, w.BufferAmount, 0.001)
		assert.InDelta(t, 136.0, w.ReportedWeightOz, 0.001)
		assert.Zero(t, w.ProductWeightOz)
	})

	t.Run("products add aggregate weight", func(t *testing.T) {
		products := []Product{
			{Description: "Denim Jeans", Quantity: 2, WeightLbs: floatPtr(1.0)},
			{Description: "T-Shirt", Quantity: 1, WeightLbs: floatPtr(0.5)},
		}

		w := ConvertAndBuffer(1, products)

		// 16 base + 32 + 8 product ounces
		assert.InDelta(t, 40.0, w.ProductWeightOz, 0.001)
		assert.InDelta(t, 56.0, w.FullParcelOz, 0.001)
		assert.InDelta(t, 56.0*0.85, w.ReportedWeightOz, 0.001)
	})

	t.Run("product without weight uses default", func(t *testing.T) {
		w := ConvertAndBuffer(1, []Product{{Description: "Mystery Item", Quantity: 1}})

		assert.InDelta(t, DefaultProductWeightLbs*OuncesPerPound, w.ProductWeightOz, 0.001)
	})

	t.Run("quantity below one counts as one", func(t *testing.T) {
		w := ConvertAndBuffer(1, []Product{{Description: "Socks", Quantity: 0, WeightLbs: floatPtr(0.25)}})

		assert.InDelta(t, 4.0, w.ProductWeightOz, 0.001)
	})

	t.Run("small parcel uses minimum buffer", func(t *testing.T) {
		// 0.125 lb = 2 oz; 15% would be 0.3 oz, below the 0.5 oz minimum
		w := ConvertAndBuffer(0.125, nil)

		assert.InDelta(t, 0.5, w.BufferAmount, 0.001)
		assert.InDelta(t, 1.5, w.ReportedWeightOz, 0.001)
	})

	t.Run("reported weight never drops below one ounce", func(t *testing.T) {
		w := ConvertAndBuffer(0.05, nil)

		assert.InDelta(t, 1.0, w.ReportedWeightOz, 0.001)
	})

	t.Run("reported stays positive across weights", func(t *testing.T) {
		for _, lbs := range []float64{0.01, 0.1, 0.5, 1, 2.5, 10, 70} {
			w := ConvertAndBuffer(lbs, nil)
			assert.GreaterOrEqual(t, w.ReportedWeightOz, 1.0, "weight %v", lbs)
			assert.LessOrEqual(t, w.BufferAmount, w.FullParcelOz+0.5)
		}
	})
}
