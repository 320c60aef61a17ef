package model

import "github.com/shopspring/decimal"

// Amounts are stored as integer paise. The JSON API and the courier APIs
// speak rupees, so conversion happens at the edges.

func PaiseFromRupees(rupees float64) int64 {
	return decimal.NewFromFloat(rupees).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func RupeesFromPaise(paise int64) float64 {
	return decimal.New(paise, -2).InexactFloat64()
}
