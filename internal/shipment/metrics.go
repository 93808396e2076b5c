package shipment

import "strings"

// PackageItem carries the physical attributes of one order line needed to
// size the parcel.
type PackageItem struct {
	Weight   float64
	Length   float64
	Width    float64
	Height   float64
	Price    float64
	Quantity int
}

// Metrics is the aggregate weight and bounding box declared to the carrier.
type Metrics struct {
	TotalWeight float64
	SubTotal    float64
	Length      float64
	Breadth     float64
	Height      float64
}

// Dimension floors applied when no item declares a usable size.
const (
	floorLength  = 10
	floorBreadth = 10
	floorHeight  = 5
)

// CalculateMetrics aggregates weight as Σ weight×qty and takes the maximum
// dimension across items so the declared box fits everything. Dimensions of
// 1cm or less fall back to the floor values.
func CalculateMetrics(items []PackageItem) Metrics {
	var m Metrics
	for _, it := range items {
		qty := float64(it.Quantity)
		m.TotalWeight += it.Weight * qty
		m.SubTotal += it.Price * qty
		m.Length = maxf(m.Length, it.Length)
		m.Breadth = maxf(m.Breadth, it.Width)
		m.Height = maxf(m.Height, it.Height)
	}

	if m.Length <= 1 {
		m.Length = floorLength
	}
	if m.Breadth <= 1 {
		m.Breadth = floorBreadth
	}
	if m.Height <= 1 {
		m.Height = floorHeight
	}
	return m
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// SplitName breaks a billing name into the first/last tokens the carrier API
// expects. A single-word name leaves the last name empty.
func SplitName(full string) (first, last string) {
	if before, after, found := strings.Cut(strings.TrimSpace(full), " "); found {
		return before, after
	}
	return strings.TrimSpace(full), ""
}
