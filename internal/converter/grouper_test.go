package converter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(invoiceNo, customerCode string, date time.Time, dpp, ppn string) CalculatedLine {
	return CalculatedLine{
		SalesRow: SalesRow{
			InvoiceNo:    invoiceNo,
			CustomerCode: customerCode,
			CustomerName: "PT " + customerCode,
			InvoiceDate:  date,
		},
		DPP: dec(dpp),
		PPN: dec(ppn),
	}
}

func TestGroupFirstSeenOrder(t *testing.T) {
	g := NewGrouper()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	groups, err := g.Group([]CalculatedLine{
		line("INV-B", "C1", date, "100", "12"),
		line("INV-A", "C2", date, "200", "24"),
		line("INV-B", "C1", date, "300", "36"),
	})
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// INV-B was seen first, so it stays first even though INV-A sorts lower
	assert.Equal(t, "INV-B", groups[0].InvoiceNo)
	assert.Equal(t, "INV-A", groups[1].InvoiceNo)
	assert.Len(t, groups[0].Lines, 2)
	assert.Len(t, groups[1].Lines, 1)
}

func TestGroupAggregatesTotals(t *testing.T) {
	g := NewGrouper()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	groups, err := g.Group([]CalculatedLine{
		line("INV-1", "C1", date, "100.50", "12.06"),
		line("INV-1", "C1", date, "200.25", "24.03"),
	})
	require.NoError(t, err)
	require.Len(t, groups, 1)

	assert.True(t, groups[0].TotalDPP.Equal(dec("300.75")))
	assert.True(t, groups[0].TotalPPN.Equal(dec("36.09")))

	// the aggregate must equal the sum over the retained lines
	sumDPP := groups[0].Lines[0].DPP.Add(groups[0].Lines[1].DPP)
	assert.True(t, groups[0].TotalDPP.Equal(sumDPP))
}

func TestGroupConflictingCustomer(t *testing.T) {
	g := NewGrouper()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	_, err := g.Group([]CalculatedLine{
		line("INV-1", "C1", date, "100", "12"),
		line("INV-1", "C2", date, "100", "12"),
	})
	require.Error(t, err)

	var inconsistent *InconsistentInvoiceError
	require.True(t, errors.As(err, &inconsistent))
	assert.Equal(t, "INV-1", inconsistent.InvoiceNo)
	assert.Equal(t, "customer code", inconsistent.Field)
}

func TestGroupConflictingDate(t *testing.T) {
	g := NewGrouper()

	_, err := g.Group([]CalculatedLine{
		line("INV-1", "C1", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "100", "12"),
		line("INV-1", "C1", time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), "100", "12"),
	})
	require.Error(t, err)

	var inconsistent *InconsistentInvoiceError
	require.True(t, errors.As(err, &inconsistent))
	assert.Equal(t, "invoice date", inconsistent.Field)
}

func TestGroupEmptyInput(t *testing.T) {
	groups, err := NewGrouper().Group(nil)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
