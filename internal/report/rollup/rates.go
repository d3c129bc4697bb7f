package rollup

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
)

// RateTable resolves the per-day allowance amount for a shift type within
// a payroll year. Every rollup consumer shares the same lookup: a missing
// rate contributes zero rather than failing the report.
type RateTable struct {
	amounts map[string]decimal.Decimal
}

// NewRateTable indexes rate rows by shift type and payroll year. Duplicate
// pairs keep the last row.
func NewRateTable(entries []domain.RateEntry) *RateTable {
	table := &RateTable{amounts: make(map[string]decimal.Decimal, len(entries))}
	for _, e := range entries {
		key := rateKey(e.ShiftType, strings.TrimSpace(e.PayrollYear))
		table.amounts[key] = e.Amount
	}
	return table
}

// Amount returns the rate for a shift type in a year, or zero when the
// pair has no configured rate.
func (t *RateTable) Amount(shiftType, year string) decimal.Decimal {
	if amount, ok := t.amounts[rateKey(shiftType, year)]; ok {
		return amount
	}
	return decimal.Zero
}

// AmountForMonth returns the rate scoped to the payroll year of a YYYY-MM
// duration month.
func (t *RateTable) AmountForMonth(shiftType, month string) decimal.Decimal {
	return t.Amount(shiftType, YearOf(month))
}

// YearOf extracts the year component of a YYYY-MM month.
func YearOf(month string) string {
	if len(month) < 4 {
		return ""
	}
	return month[:4]
}

func rateKey(shiftType, year string) string {
	return domain.NormalizeShiftType(shiftType) + "|" + year
}
