package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRow is one ERP transaction line extracted from the input sheet.
type SalesRow struct {
	SourceRow     int // 1-based row number in the input file
	CustomerCode  string
	CustomerName  string
	InvoiceNo     string
	InvoiceDate   time.Time
	ItemCode      string
	ItemName      string
	Unit          string
	Qty           decimal.Decimal
	PriceAfterTax decimal.Decimal
	InvoiceAmount decimal.Decimal
}

// CalculatedLine is a SalesRow with its derived tax amounts. Once built by
// the Calculator it is never mutated.
type CalculatedLine struct {
	SalesRow
	DPP       decimal.Decimal // tax base, rounded to 2 decimals
	PPN       decimal.Decimal // InvoiceAmount - DPP, exact by construction
	UnitPrice decimal.Decimal // DPP per unit, rounded to 2 decimals
}

// InvoiceGroup is one tax invoice: the header identity plus its detail lines
// in the order they appeared in the input.
type InvoiceGroup struct {
	InvoiceNo    string
	CustomerCode string
	CustomerName string
	InvoiceDate  time.Time
	Lines        []CalculatedLine
	TotalDPP     decimal.Decimal
	TotalPPN     decimal.Decimal
}

// SkippedRow records an input row that was excluded from the output.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Report summarizes one conversion for the caller. It accompanies a
// successful output file; it is never returned with a fatal error.
type Report struct {
	TotalRows     int          `json:"total_rows"`
	ConvertedRows int          `json:"converted_rows"`
	InvoiceCount  int          `json:"invoice_count"`
	SkippedRows   []SkippedRow `json:"skipped_rows,omitempty"`
	Warnings      []string     `json:"warnings,omitempty"`
}
