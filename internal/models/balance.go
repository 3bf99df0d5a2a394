package models

import "github.com/shopspring/decimal"

// TotalBalances sums account balances per currency code. The bridge reports
// balances as decimal strings; values that fail to parse are skipped rather
// than failing the whole sum.
func TotalBalances(accounts []AccountSnapshot) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)

	for _, acc := range accounts {
		amount, err := decimal.NewFromString(acc.Balance)
		if err != nil {
			continue
		}
		totals[acc.Currency] = totals[acc.Currency].Add(amount)
	}

	return totals
}
