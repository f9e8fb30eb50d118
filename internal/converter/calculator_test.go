package converter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculate(t *testing.T) {
	calc := NewCalculator(dec("0.12"))

	tests := []struct {
		name     string
		qty      string
		amount   string
		wantDPP  string
		wantPPN  string
		wantUnit string
	}{
		{
			name:     "round amount",
			qty:      "2",
			amount:   "22400",
			wantDPP:  "20000",
			wantPPN:  "2400",
			wantUnit: "10000",
		},
		{
			name:     "zero amount",
			qty:      "1",
			amount:   "0",
			wantDPP:  "0",
			wantPPN:  "0",
			wantUnit: "0",
		},
		{
			name:     "amount that does not divide evenly",
			qty:      "3",
			amount:   "10000",
			wantDPP:  "8928.57",
			wantPPN:  "1071.43",
			wantUnit: "2976.19",
		},
		{
			name:     "fractional quantity",
			qty:      "0.5",
			amount:   "560",
			wantDPP:  "500",
			wantPPN:  "60",
			wantUnit: "1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := calc.Calculate(SalesRow{Qty: dec(tt.qty), InvoiceAmount: dec(tt.amount)})
			assert.True(t, line.DPP.Equal(dec(tt.wantDPP)), "dpp = %s, want %s", line.DPP, tt.wantDPP)
			assert.True(t, line.PPN.Equal(dec(tt.wantPPN)), "ppn = %s, want %s", line.PPN, tt.wantPPN)
			assert.True(t, line.UnitPrice.Equal(dec(tt.wantUnit)), "unit = %s, want %s", line.UnitPrice, tt.wantUnit)
		})
	}
}

// DPP + PPN must reconstruct the invoice amount exactly, since PPN is
// derived by subtraction rather than rounded on its own.
func TestCalculateSumIdentity(t *testing.T) {
	calc := NewCalculator(dec("0.12"))

	amounts := []string{"1", "0.01", "99.99", "12345.67", "22400", "1000000.13"}
	for _, a := range amounts {
		line := calc.Calculate(SalesRow{Qty: dec("1"), InvoiceAmount: dec(a)})
		sum := line.DPP.Add(line.PPN)
		assert.True(t, sum.Equal(dec(a)), "dpp+ppn = %s, want %s", sum, a)
	}
}

func TestRatePercent(t *testing.T) {
	assert.Equal(t, int64(12), NewCalculator(dec("0.12")).RatePercent())
	assert.Equal(t, int64(11), NewCalculator(dec("0.11")).RatePercent())
	assert.Equal(t, int64(0), NewCalculator(decimal.Zero).RatePercent())
}

func TestCalculateZeroRate(t *testing.T) {
	calc := NewCalculator(decimal.Zero)
	line := calc.Calculate(SalesRow{Qty: dec("1"), InvoiceAmount: dec("1000")})
	assert.True(t, line.DPP.Equal(dec("1000")))
	assert.True(t, line.PPN.IsZero())
}
