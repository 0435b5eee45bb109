package services

import (
	"github.com/shopspring/decimal"

	"clarity/internal/models"
)

// resolveBalances computes a period's balance column from its flows and
// whatever manual corrections exist, in strict precedence order:
//
//  1. An explicit closing override is authoritative and wins outright.
//  2. A known opening balance rolls forward: opening + net - dividends.
//  3. Otherwise the closing is derived from a zero baseline and the
//     opening stays nil, because "unknown" is distinct from zero.
func resolveBalances(override *models.PeriodOverride, net, dividends decimal.Decimal) (opening *decimal.Decimal, closing decimal.Decimal) {
	if override != nil {
		opening = override.OpeningBalanceOverride
		if override.ClosingBalanceOverride != nil {
			return opening, *override.ClosingBalanceOverride
		}
	}
	if opening != nil {
		return opening, opening.Add(net).Sub(dividends)
	}
	return nil, net.Sub(dividends)
}
