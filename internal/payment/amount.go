package payment

import "github.com/shopspring/decimal"

// MinorUnits converts a rupee amount to integer paise. Fractional paise are
// truncated toward zero, never rounded up.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Floor().IntPart()
}
