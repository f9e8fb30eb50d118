package converter

import (
	"errors"
	"fmt"
)

// Error kinds reported to the caller through ConversionError.
const (
	KindMissingColumn       = "missing_column"
	KindInvalidInput        = "invalid_input"
	KindEmptyInput          = "empty_input"
	KindInconsistentInvoice = "inconsistent_invoice"
	KindSerialization       = "serialization"

	// KindRowValidation classifies per-row failures. Rows failing
	// validation are excluded and carried in Report.SkippedRows; they never
	// surface as a ConversionError of their own.
	KindRowValidation = "row_validation"
)

var (
	// ErrNoSheets indicates the uploaded workbook contains no sheets.
	ErrNoSheets = errors.New("input workbook has no sheets")

	// ErrNoData indicates the sheet has no usable data rows after parsing.
	ErrNoData = errors.New("no valid data found in the uploaded file")
)

// MissingColumnError is returned when a required input column is absent
// from the header row. The whole file is rejected.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found in input header", e.Column)
}

// RowValidationError describes a single rejected row. It is collected into
// the conversion Report, not propagated as a fatal error.
type RowValidationError struct {
	Row    int
	Field  string
	Reason string
}

func (e *RowValidationError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// InconsistentInvoiceError is returned when lines sharing an invoice number
// disagree on header-level identity. A split invoice means the source data
// is broken, so the conversion aborts.
type InconsistentInvoiceError struct {
	InvoiceNo string
	Field     string
}

func (e *InconsistentInvoiceError) Error() string {
	return fmt.Sprintf("invoice %s has conflicting %s across its lines", e.InvoiceNo, e.Field)
}

// SerializationError is returned when the assembled workbook cannot be
// encoded to bytes.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize output workbook: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// ConversionError is the single error type crossing the pipeline boundary.
// Kind is machine-readable; Detail is safe to show to the caller.
type ConversionError struct {
	Kind   string
	Detail string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed (%s): %s", e.Kind, e.Detail)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func newConversionError(kind string, err error) *ConversionError {
	return &ConversionError{Kind: kind, Detail: err.Error(), Err: err}
}
