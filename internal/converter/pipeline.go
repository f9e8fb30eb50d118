package converter

import (
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config is the conversion configuration. It is read-only once the
// pipeline is constructed, so one pipeline can serve concurrent requests.
type Config struct {
	// PPNRate is the VAT rate applied to tax-inclusive amounts, e.g. 0.12.
	PPNRate decimal.Decimal
	// DefaultItemCode fills ItemCode when a row leaves it blank.
	DefaultItemCode string
	// DefaultUnit is the Core Tax unit designator for every line.
	DefaultUnit string
	// SellerNPWP goes into the Faktur sheet header.
	SellerNPWP string
	// AmountTolerance is the relative tolerance for the qty x unit price vs
	// invoice amount consistency check.
	AmountTolerance decimal.Decimal
}

// DefaultConfig returns the conversion defaults.
func DefaultConfig() Config {
	return Config{
		PPNRate:         decimal.NewFromFloat(0.12),
		DefaultItemCode: "310000",
		DefaultUnit:     "UM.0003",
		SellerNPWP:      "0012328415631000",
		AmountTolerance: decimal.NewFromFloat(0.01),
	}
}

// Pipeline runs the full conversion: parse, calculate, group, assemble,
// serialize. Each Convert call is independent; no state survives a call.
type Pipeline struct {
	parser     *Parser
	calculator *Calculator
	grouper    *Grouper
	assembler  *Assembler
	logger     *zap.Logger
}

// NewPipeline wires the pipeline stages from the given configuration.
func NewPipeline(cfg Config, logger *zap.Logger) *Pipeline {
	calculator := NewCalculator(cfg.PPNRate)
	return &Pipeline{
		parser:     NewParser(cfg.DefaultItemCode, cfg.DefaultUnit, cfg.AmountTolerance, logger),
		calculator: calculator,
		grouper:    NewGrouper(),
		assembler:  NewAssembler(cfg.SellerNPWP, calculator.RatePercent(), logger),
		logger:     logger,
	}
}

// Convert transforms an ERP sales workbook into Core Tax import bytes.
//
// On success the Report describes what was converted and what was skipped.
// On failure the returned error is always a *ConversionError and no output
// bytes are produced.
func (p *Pipeline) Convert(input []byte) ([]byte, *Report, error) {
	parsed, err := p.parser.ParseWorkbook(input)
	if err != nil {
		var missing *MissingColumnError
		switch {
		case errors.As(err, &missing):
			return nil, nil, newConversionError(KindMissingColumn, err)
		case errors.Is(err, ErrNoData):
			return nil, nil, newConversionError(KindEmptyInput, err)
		default:
			// unreadable workbook, no sheets, or a broken sheet read
			return nil, nil, newConversionError(KindInvalidInput, err)
		}
	}

	if len(parsed.Rows) == 0 {
		return nil, nil, newConversionError(KindEmptyInput, ErrNoData)
	}

	lines := make([]CalculatedLine, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		lines = append(lines, p.calculator.Calculate(row))
	}

	groups, err := p.grouper.Group(lines)
	if err != nil {
		return nil, nil, newConversionError(KindInconsistentInvoice, err)
	}

	output, err := p.assembler.Assemble(groups)
	if err != nil {
		return nil, nil, newConversionError(KindSerialization, err)
	}

	report := &Report{
		TotalRows:     parsed.TotalRows,
		ConvertedRows: len(parsed.Rows),
		InvoiceCount:  len(groups),
		SkippedRows:   parsed.Skipped,
		Warnings:      parsed.Warnings,
	}

	p.logger.Info("Conversion completed",
		zap.Int("total_rows", report.TotalRows),
		zap.Int("converted_rows", report.ConvertedRows),
		zap.Int("invoices", report.InvoiceCount),
		zap.Int("skipped_rows", len(report.SkippedRows)),
		zap.Int("warnings", len(report.Warnings)))

	return output, report, nil
}
