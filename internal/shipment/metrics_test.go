package shipment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMetrics_WeightAndSubtotal(t *testing.T) {
	t.Parallel()

	m := CalculateMetrics([]PackageItem{
		{Weight: 0.5, Price: 100, Quantity: 2, Length: 20, Width: 15, Height: 8},
		{Weight: 0.5, Price: 50, Quantity: 1, Length: 12, Width: 18, Height: 6},
	})

	assert.InDelta(t, 1.5, m.TotalWeight, 1e-9)
	assert.InDelta(t, 250, m.SubTotal, 1e-9)
	assert.InDelta(t, 20, m.Length, 1e-9)
	assert.InDelta(t, 18, m.Breadth, 1e-9)
	assert.InDelta(t, 8, m.Height, 1e-9)
}

func TestCalculateMetrics_DimensionFloors(t *testing.T) {
	t.Parallel()

	m := CalculateMetrics([]PackageItem{
		{Weight: 0.2, Quantity: 1},
		{Weight: 0.3, Quantity: 2},
	})

	assert.InDelta(t, 10, m.Length, 1e-9)
	assert.InDelta(t, 10, m.Breadth, 1e-9)
	assert.InDelta(t, 5, m.Height, 1e-9)
}

func TestSplitName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		first string
		last  string
	}{
		{name: "two tokens", in: "Asha Verma", first: "Asha", last: "Verma"},
		{name: "three tokens", in: "Asha Kumari Verma", first: "Asha", last: "Kumari Verma"},
		{name: "single token", in: "Asha", first: "Asha", last: ""},
		{name: "padded", in: "  Asha  ", first: "Asha", last: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			first, last := SplitName(tt.in)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}
