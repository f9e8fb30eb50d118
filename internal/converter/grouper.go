package converter

// Grouper aggregates calculated lines into invoice headers.
type Grouper struct{}

// NewGrouper creates a grouper.
func NewGrouper() *Grouper {
	return &Grouper{}
}

// Group collects lines by invoice number, preserving first-seen order of
// invoices and the input order of lines within each invoice. Lines of one
// invoice must agree on customer code and invoice date; a mismatch aborts
// the conversion because it means the source export is corrupt.
func (g *Grouper) Group(lines []CalculatedLine) ([]InvoiceGroup, error) {
	byInvoice := make(map[string]int)
	groups := make([]InvoiceGroup, 0)

	for _, line := range lines {
		idx, seen := byInvoice[line.InvoiceNo]
		if !seen {
			byInvoice[line.InvoiceNo] = len(groups)
			groups = append(groups, InvoiceGroup{
				InvoiceNo:    line.InvoiceNo,
				CustomerCode: line.CustomerCode,
				CustomerName: line.CustomerName,
				InvoiceDate:  line.InvoiceDate,
			})
			idx = len(groups) - 1
		} else {
			if groups[idx].CustomerCode != line.CustomerCode {
				return nil, &InconsistentInvoiceError{InvoiceNo: line.InvoiceNo, Field: "customer code"}
			}
			if !groups[idx].InvoiceDate.Equal(line.InvoiceDate) {
				return nil, &InconsistentInvoiceError{InvoiceNo: line.InvoiceNo, Field: "invoice date"}
			}
		}

		groups[idx].Lines = append(groups[idx].Lines, line)
		groups[idx].TotalDPP = groups[idx].TotalDPP.Add(line.DPP)
		groups[idx].TotalPPN = groups[idx].TotalPPN.Add(line.PPN)
	}

	return groups, nil
}
