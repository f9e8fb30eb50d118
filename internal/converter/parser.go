package converter

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Canonical input field names. These are also the names surfaced in
// MissingColumnError so the caller sees the documented column name.
const (
	fieldCustomerCode  = "CustomerCode"
	fieldCustomerName  = "CustomerName"
	fieldInvoiceNo     = "InvoiceNo"
	fieldInvoiceDate   = "InvoiceDate"
	fieldItemCode      = "ItemCode"
	fieldItemName      = "ItemName"
	fieldQty           = "Qty"
	fieldPriceAfterTax = "PriceAfterTax"
	fieldInvoiceAmount = "InvoiceAmount"
)

// headerAliases maps each canonical field to the header spellings seen in
// ERP exports. Matching is case-insensitive and ignores spaces, dots,
// underscores and dashes, so "Invoice No." and "invoice_no" both resolve
// to InvoiceNo.
var headerAliases = map[string][]string{
	fieldCustomerCode:  {"customercode", "custcode", "kodecustomer", "kodepelanggan"},
	fieldCustomerName:  {"customername", "custname", "namacustomer", "namapelanggan"},
	fieldInvoiceNo:     {"invoiceno", "invoicenumber", "nofaktur", "noinvoice", "nomorinvoice"},
	fieldInvoiceDate:   {"invoicedate", "tanggalinvoice", "tglinvoice", "tanggalfaktur"},
	fieldItemCode:      {"itemcode", "kodebarang", "kodeitem"},
	fieldItemName:      {"itemname", "namabarang", "namaitem", "description"},
	fieldQty:           {"qty", "quantity", "jumlah", "jml"},
	fieldPriceAfterTax: {"priceaftertax", "hargasetelahpajak", "hargainclppn", "unitprice"},
	fieldInvoiceAmount: {"invoiceamount", "amount", "nilaiinvoice", "totalamount"},
}

// requiredFields must all be present in the header row; anything else is
// defaulted or left empty per row.
var requiredFields = []string{
	fieldCustomerCode,
	fieldInvoiceNo,
	fieldItemName,
	fieldQty,
	fieldInvoiceAmount,
}

// dateLayouts are the invoice date formats tolerated in ERP exports.
var dateLayouts = []string{
	"02.01.06",
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
}

var nonNumericChars = regexp.MustCompile(`[^\d.\-]`)

// ParseResult is the outcome of parsing one input table: the usable rows in
// file order, plus everything that was excluded or looked suspicious.
type ParseResult struct {
	Rows     []SalesRow
	Skipped  []SkippedRow
	Warnings []string
	// TotalRows counts non-blank data rows, valid or not.
	TotalRows int
}

// Parser reads the raw input workbook and produces validated SalesRows.
type Parser struct {
	defaultItemCode string
	defaultUnit     string
	tolerance       decimal.Decimal // relative tolerance for qty*price vs amount
	logger          *zap.Logger
}

// NewParser creates a parser with the configured per-row defaults.
func NewParser(defaultItemCode, defaultUnit string, tolerance decimal.Decimal, logger *zap.Logger) *Parser {
	return &Parser{
		defaultItemCode: defaultItemCode,
		defaultUnit:     defaultUnit,
		tolerance:       tolerance,
		logger:          logger,
	}
}

// ParseWorkbook opens an xlsx file from memory and parses its first sheet.
func (p *Parser) ParseWorkbook(data []byte) (*ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open input workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	return p.Parse(rows)
}

// Parse extracts SalesRows from a raw table. Row 0 is the header row. Rows
// that fail validation are excluded and recorded; a missing required column
// fails the whole table with MissingColumnError.
func (p *Parser) Parse(rows [][]string) (*ParseResult, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	columns, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}

	for i := 1; i < len(rows); i++ {
		rowNum := i + 1 // 1-based, as shown in spreadsheet UIs
		cells := rows[i]

		if isBlankRow(cells, columns) {
			continue
		}
		result.TotalRows++

		row, rowErr := p.parseRow(rowNum, cells, columns, result)
		if rowErr != nil {
			p.logger.Warn("Excluding invalid input row",
				zap.Int("row", rowNum),
				zap.String("reason", rowErr.Error()))
			result.Skipped = append(result.Skipped, SkippedRow{Row: rowNum, Reason: rowErr.Error()})
			continue
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// resolveColumns maps canonical fields to column indexes using the alias
// table. Missing required columns reject the table.
func resolveColumns(header []string) (map[string]int, error) {
	normalized := make(map[string]int, len(header))
	for idx, h := range header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := normalized[key]; !dup {
			normalized[key] = idx
		}
	}

	columns := make(map[string]int)
	for field, aliases := range headerAliases {
		for _, alias := range aliases {
			if idx, ok := normalized[alias]; ok {
				columns[field] = idx
				break
			}
		}
	}

	for _, field := range requiredFields {
		if _, ok := columns[field]; !ok {
			return nil, &MissingColumnError{Column: field}
		}
	}

	return columns, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '_', '-':
			return -1
		}
		return r
	}, h)
}

// parseRow validates and coerces one data row. Consistency findings that are
// not fatal for the row are appended to result.Warnings.
func (p *Parser) parseRow(rowNum int, cells []string, columns map[string]int, result *ParseResult) (SalesRow, error) {
	cell := func(field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[idx])
	}

	row := SalesRow{
		SourceRow:    rowNum,
		CustomerCode: cell(fieldCustomerCode),
		CustomerName: cell(fieldCustomerName),
		InvoiceNo:    cell(fieldInvoiceNo),
		ItemCode:     cell(fieldItemCode),
		ItemName:     cell(fieldItemName),
		Unit:         p.defaultUnit,
	}

	if row.InvoiceNo == "" {
		return SalesRow{}, &RowValidationError{Row: rowNum, Field: fieldInvoiceNo, Reason: "empty invoice number"}
	}
	if row.ItemCode == "" {
		row.ItemCode = p.defaultItemCode
	}

	qty, err := parseAmount(cell(fieldQty))
	if err != nil {
		return SalesRow{}, &RowValidationError{Row: rowNum, Field: fieldQty, Reason: err.Error()}
	}
	if !qty.IsPositive() {
		return SalesRow{}, &RowValidationError{Row: rowNum, Field: fieldQty, Reason: "quantity must be positive"}
	}
	row.Qty = qty

	price, err := parseAmount(cell(fieldPriceAfterTax))
	if err != nil {
		return SalesRow{}, &RowValidationError{Row: rowNum, Field: fieldPriceAfterTax, Reason: err.Error()}
	}
	if price.IsNegative() {
		return SalesRow{}, &RowValidationError{Row: rowNum, Field: fieldPriceAfterTax, Reason: "unit price must not be negative"}
	}
	row.PriceAfterTax = price

	amount, err := parseAmount(cell(fieldInvoiceAmount))
	if err != nil {
		return SalesRow{}, &RowValidationError{Row: rowNum, Field: fieldInvoiceAmount, Reason: err.Error()}
	}
	if amount.IsNegative() {
		return SalesRow{}, &RowValidationError{Row: rowNum, Field: fieldInvoiceAmount, Reason: "amount must not be negative"}
	}

	switch {
	case amount.IsZero() && price.IsPositive():
		// ERP exports sometimes leave the line total blank; reconstruct it
		// from the tax-inclusive unit price.
		amount = qty.Mul(price)
	case amount.IsZero() && price.IsZero():
		return SalesRow{}, &RowValidationError{Row: rowNum, Field: fieldInvoiceAmount, Reason: "no invoice amount or unit price"}
	case price.IsPositive():
		expected := qty.Mul(price)
		diff := expected.Sub(amount).Abs()
		if diff.GreaterThan(amount.Mul(p.tolerance)) {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"row %d: qty x unit price (%s) differs from invoice amount (%s)",
				rowNum, expected.StringFixed(2), amount.StringFixed(2)))
		}
	}
	row.InvoiceAmount = amount

	row.InvoiceDate = parseDate(cell(fieldInvoiceDate))

	return row, nil
}

// parseAmount coerces a cell into a decimal, stripping currency symbols and
// thousands separators. Empty cells are zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	cleaned := nonNumericChars.ReplaceAllString(s, "")
	if cleaned == "" || cleaned == "-" {
		return decimal.Decimal{}, fmt.Errorf("non-numeric value %q", s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("non-numeric value %q", s)
	}
	return d, nil
}

// parseDate tries the tolerated ERP date formats. Unparseable values yield
// a zero time, which renders as an empty date in the output.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// isBlankRow reports whether every recognized column in the row is empty.
func isBlankRow(cells []string, columns map[string]int) bool {
	for _, idx := range columns {
		if idx < len(cells) && strings.TrimSpace(cells[idx]) != "" {
			return false
		}
	}
	return true
}
