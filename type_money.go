package pkm

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// SettlementCurrency is the single currency in which aggregate wealth and
// net-worth figures are reported.
const SettlementCurrency = "TRY"

// PricingCurrency returns the currency an asset class is natively priced in.
// Crypto trades against USD; everything else is quoted directly in the
// settlement currency.
func PricingCurrency(t AssetType) string {
	if t == AssetCrypto {
		return "USD"
	}
	return SettlementCurrency
}

// FormatMoney renders a monetary value with the currency's own symbol,
// fraction digits and grouping (e.g. "₺1.234,56" for TRY).
func FormatMoney(v float64, code string) string {
	// The Money constructor guarantees a non-nil currency for known codes.
	cur := money.New(0, code).Currency()
	shifted := decimal.NewFromFloat(v).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(shifted.Round(0).IntPart())
}

// FormatSettlement renders a value in the settlement currency.
func FormatSettlement(v float64) string { return FormatMoney(v, SettlementCurrency) }

// round2 rounds to two decimals; realized P&L cells are persisted rounded.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
