package converter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestParser() *Parser {
	return NewParser("310000", "UM.0003", dec("0.01"), zap.NewNop())
}

var testHeader = []string{
	"CustomerCode", "CustomerName", "InvoiceNo", "InvoiceDate",
	"ItemCode", "ItemName", "Qty", "PriceAfterTax", "InvoiceAmount",
}

func TestParseValidRows(t *testing.T) {
	p := newTestParser()

	result, err := p.Parse([][]string{
		testHeader,
		{"C001", "PT Maju", "INV-001", "2025-01-15", "100200", "Widget", "2", "11200", "22400"},
		{"C002", "PT Jaya", "INV-002", "15/01/2025", "", "Gadget", "1", "5600", "5600"},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 2, result.TotalRows)
	assert.Empty(t, result.Skipped)
	assert.Empty(t, result.Warnings)

	first := result.Rows[0]
	assert.Equal(t, "C001", first.CustomerCode)
	assert.Equal(t, "INV-001", first.InvoiceNo)
	assert.Equal(t, "100200", first.ItemCode)
	assert.Equal(t, "UM.0003", first.Unit)
	assert.True(t, first.Qty.Equal(dec("2")))
	assert.True(t, first.InvoiceAmount.Equal(dec("22400")))
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), first.InvoiceDate)

	// blank item code falls back to the configured default
	assert.Equal(t, "310000", result.Rows[1].ItemCode)
	// both date formats resolve to the same day
	assert.Equal(t, first.InvoiceDate, result.Rows[1].InvoiceDate)
}

func TestParseHeaderVariants(t *testing.T) {
	p := newTestParser()

	result, err := p.Parse([][]string{
		{"customer_code", "CUSTOMER NAME", "Invoice No.", "invoice-date", "item code", "Item Name", "QTY", "price_after_tax", "Invoice Amount"},
		{"C001", "PT Maju", "INV-001", "2025-01-15", "X", "Widget", "1", "1120", "1120"},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "PT Maju", result.Rows[0].CustomerName)
}

func TestParseMissingRequiredColumn(t *testing.T) {
	p := newTestParser()

	_, err := p.Parse([][]string{
		{"CustomerCode", "CustomerName", "InvoiceNo", "ItemName", "Qty"},
		{"C001", "PT Maju", "INV-001", "Widget", "1"},
	})
	require.Error(t, err)

	var missing *MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "InvoiceAmount", missing.Column)
}

func TestParseInvalidRowsAreSkippedAndReported(t *testing.T) {
	p := newTestParser()

	result, err := p.Parse([][]string{
		testHeader,
		{"C001", "PT Maju", "INV-001", "2025-01-15", "X", "Widget", "-2", "100", "200"},
		{"C001", "PT Maju", "INV-001", "2025-01-15", "X", "Widget", "abc", "100", "200"},
		{"C001", "PT Maju", "INV-001", "2025-01-15", "X", "Widget", "2", "100", "-200"},
		{"C001", "PT Maju", "INV-001", "2025-01-15", "X", "Widget", "2", "11200", "22400"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalRows)
	require.Len(t, result.Rows, 1)
	require.Len(t, result.Skipped, 3)
	assert.Equal(t, 2, result.Skipped[0].Row)
	assert.Contains(t, result.Skipped[0].Reason, "positive")
	assert.Contains(t, result.Skipped[1].Reason, "non-numeric")
}

func TestParseBlankRowsSkippedSilently(t *testing.T) {
	p := newTestParser()

	result, err := p.Parse([][]string{
		testHeader,
		{"", "", "", "", "", "", "", "", ""},
		{},
		{"C001", "PT Maju", "INV-001", "2025-01-15", "X", "Widget", "1", "1120", "1120"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalRows)
	assert.Len(t, result.Rows, 1)
	assert.Empty(t, result.Skipped)
}

func TestParseAmountFallsBackToUnitPrice(t *testing.T) {
	p := newTestParser()

	result, err := p.Parse([][]string{
		testHeader,
		{"C001", "PT Maju", "INV-001", "2025-01-15", "X", "Widget", "3", "1120", ""},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.True(t, result.Rows[0].InvoiceAmount.Equal(dec("3360")))
}

func TestParseRowWithoutAnyAmountIsSkipped(t *testing.T) {
	p := newTestParser()

	result, err := p.Parse([][]string{
		testHeader,
		{"C001", "PT Maju", "INV-001", "2025-01-15", "X", "Widget", "3", "", ""},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0].Reason, "no invoice amount")
}

func TestParseToleranceWarning(t *testing.T) {
	p := newTestParser()

	// 2 x 11200 = 22400 but amount says 20000: outside the 1% tolerance.
	result, err := p.Parse([][]string{
		testHeader,
		{"C001", "PT Maju", "INV-001", "2025-01-15", "X", "Widget", "2", "11200", "20000"},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1, "mismatch is a warning, not a rejection")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "row 2")
}

func TestParseWithinToleranceNoWarning(t *testing.T) {
	p := newTestParser()

	result, err := p.Parse([][]string{
		testHeader,
		{"C001", "PT Maju", "INV-001", "2025-01-15", "X", "Widget", "2", "11200", "22399"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
}

func TestParseAmountCleansFormatting(t *testing.T) {
	got, err := parseAmount("Rp 1,234,567.89")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("1234567.89")))

	got, err = parseAmount("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = parseAmount("n/a")
	require.Error(t, err)
}

func TestParseDateFormats(t *testing.T) {
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"15.01.25", "15/01/2025", "2025-01-15", "15-01-2025"} {
		assert.Equal(t, want, parseDate(s), "input %q", s)
	}
	assert.True(t, parseDate("not a date").IsZero())
	assert.True(t, parseDate("").IsZero())
}

func TestParseEmptyTable(t *testing.T) {
	p := newTestParser()
	_, err := p.Parse(nil)
	assert.ErrorIs(t, err, ErrNoData)
}
