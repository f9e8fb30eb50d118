package converter

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Output sheet names, in the exact order the Core Tax importer expects.
var outputSheets = []string{"Faktur", "DetailFaktur", "REF", "Keterangan"}

// Fixed header-level defaults required by the import format.
const (
	fakturType      = "Normal"
	transactionCode = "04"
	goodsFlag       = "A"
	fallbackItem    = "Barang/Jasa"

	maxItemCodeLen = 20
	maxItemNameLen = 255
)

var fakturHeader = []string{
	"Baris", "Tanggal Faktur", "Jenis Faktur", "Kode Transaksi",
	"Nomor Invoice", "Kode Pembeli", "Nama Pembeli", "DPP", "PPN",
}

var detailFakturHeader = []string{
	"Baris", "Nomor Invoice", "Barang.Jasa", "Kode Barang Jasa",
	"Nama Barang.Jasa", "Nama Satuan Ukur", "Harga Satuan",
	"Jumlah Barang Jasa", "Total Diskon", "DPP", "DPP Nilai Lain",
	"Tarif PPN", "PPN", "Tarif PPnBM", "PPnBM",
}

// Assembler renders grouped invoices into the four-sheet Core Tax workbook.
type Assembler struct {
	sellerNPWP  string
	ratePercent int64
	logger      *zap.Logger
}

// NewAssembler creates an assembler. ratePercent is the PPN rate as a whole
// percentage for the Tarif PPN column.
func NewAssembler(sellerNPWP string, ratePercent int64, logger *zap.Logger) *Assembler {
	return &Assembler{
		sellerNPWP:  sellerNPWP,
		ratePercent: ratePercent,
		logger:      logger,
	}
}

// Assemble builds the output workbook and serializes it to xlsx bytes.
func (a *Assembler) Assemble(groups []InvoiceGroup) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// excelize starts with a default "Sheet1"; rename it so the sheet order
	// comes out exactly as the importer requires.
	if err := f.SetSheetName(f.GetSheetName(0), outputSheets[0]); err != nil {
		return nil, &SerializationError{Err: err}
	}
	for _, name := range outputSheets[1:] {
		if _, err := f.NewSheet(name); err != nil {
			return nil, &SerializationError{Err: err}
		}
	}

	if err := a.writeFaktur(f, groups); err != nil {
		return nil, &SerializationError{Err: err}
	}
	if err := a.writeDetailFaktur(f, groups); err != nil {
		return nil, &SerializationError{Err: err}
	}
	if err := writeStaticSheet(f, "REF", refSheetRows); err != nil {
		return nil, &SerializationError{Err: err}
	}
	if err := writeStaticSheet(f, "Keterangan", keteranganSheetRows); err != nil {
		return nil, &SerializationError{Err: err}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &SerializationError{Err: err}
	}

	a.logger.Debug("Workbook assembled",
		zap.Int("invoices", len(groups)),
		zap.String("static_revision", staticSheetsRevision))

	return buf.Bytes(), nil
}

// writeFaktur writes the invoice header sheet: seller identity at the top,
// column headers on row 3, one row per invoice from row 4.
func (a *Assembler) writeFaktur(f *excelize.File, groups []InvoiceGroup) error {
	if err := f.SetCellValue("Faktur", "A1", "NPWP Penjual"); err != nil {
		return err
	}
	if err := f.SetCellValue("Faktur", "C1", a.sellerNPWP); err != nil {
		return err
	}

	if err := writeRow(f, "Faktur", 3, toAnySlice(fakturHeader)); err != nil {
		return err
	}

	for i, g := range groups {
		cells := []interface{}{
			i + 1,
			formatDate(g.InvoiceDate),
			fakturType,
			transactionCode,
			g.InvoiceNo,
			g.CustomerCode,
			g.CustomerName,
			decimalCell(g.TotalDPP),
			decimalCell(g.TotalPPN),
		}
		if err := writeRow(f, "Faktur", 4+i, cells); err != nil {
			return err
		}
	}
	return nil
}

// writeDetailFaktur writes one row per calculated line. Baris links each
// line back to its invoice's row number on the Faktur sheet, Nomor Invoice
// carries the invoice number itself.
func (a *Assembler) writeDetailFaktur(f *excelize.File, groups []InvoiceGroup) error {
	if err := writeRow(f, "DetailFaktur", 1, toAnySlice(detailFakturHeader)); err != nil {
		return err
	}

	outRow := 2
	for i, g := range groups {
		for _, line := range g.Lines {
			cells := []interface{}{
				i + 1,
				g.InvoiceNo,
				goodsFlag,
				truncate(line.ItemCode, maxItemCodeLen),
				itemNameOrFallback(line.ItemName),
				line.Unit,
				decimalCell(line.UnitPrice),
				decimalCell(line.Qty),
				0,
				decimalCell(line.DPP),
				decimalCell(line.DPP),
				a.ratePercent,
				decimalCell(line.PPN),
				0,
				0,
			}
			if err := writeRow(f, "DetailFaktur", outRow, cells); err != nil {
				return err
			}
			outRow++
		}
	}
	return nil
}

func writeStaticSheet(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		if err := writeRow(f, sheet, i+1, toAnySlice(row)); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	addr, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// decimalCell converts an already-rounded decimal to a numeric cell value.
func decimalCell(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// truncate caps a string at max characters, never cutting a multibyte
// rune in half.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func itemNameOrFallback(name string) string {
	if name == "" {
		return fallbackItem
	}
	return truncate(name, maxItemNameLen)
}

func toAnySlice(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
