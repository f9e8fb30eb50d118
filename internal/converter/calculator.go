package converter

import "github.com/shopspring/decimal"

// Calculator derives DPP and PPN from tax-inclusive line totals. It is a
// pure component: no I/O and no failure modes.
type Calculator struct {
	rate decimal.Decimal // PPN rate, e.g. 0.12
}

// NewCalculator creates a calculator for the given PPN rate.
func NewCalculator(rate decimal.Decimal) *Calculator {
	return &Calculator{rate: rate}
}

// Calculate derives the tax amounts for one row.
//
// DPP is the tax-inclusive amount divided by (1 + rate), rounded to two
// decimals. PPN is derived by subtraction rather than rounded independently,
// so DPP + PPN always equals InvoiceAmount exactly.
func (c *Calculator) Calculate(row SalesRow) CalculatedLine {
	line := CalculatedLine{SalesRow: row}

	if row.InvoiceAmount.IsZero() {
		line.DPP = decimal.Zero
		line.PPN = decimal.Zero
		line.UnitPrice = decimal.Zero
		return line
	}

	divisor := decimal.NewFromInt(1).Add(c.rate)
	line.DPP = row.InvoiceAmount.DivRound(divisor, 2)
	line.PPN = row.InvoiceAmount.Sub(line.DPP)

	if row.Qty.IsPositive() {
		line.UnitPrice = line.DPP.DivRound(row.Qty, 2)
	}

	return line
}

// RatePercent reports the configured rate as a whole percentage for the
// Tarif PPN output column (0.12 -> 12).
func (c *Calculator) RatePercent() int64 {
	return c.rate.Mul(decimal.NewFromInt(100)).IntPart()
}
