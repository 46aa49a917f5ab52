package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a payment statement into a printable receipt document.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF statement listing each paid enrollment with a total line.
func (e *PDFExporter) Render(st Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "PAYMENT STATEMENT", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, st.UserEmail, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, st.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	headers := []string{"Class", "Amount", "Reference", "Paid at"}
	widths := []float64{70, 25, 55, 40}

	pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	var total float64
	for _, row := range st.Rows {
		total += row.Amount
		pdf.CellFormat(widths[0], 7, row.ClassTitle, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%.2f %s", row.Amount, strings.ToUpper(row.Currency)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, row.TransactionRef, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[3], 7, row.PaidAt.UTC().Format(time.DateOnly), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(widths[0], 8, "Total", "1", 0, "", false, 0, "")
	pdf.CellFormat(widths[1], 8, fmt.Sprintf("%.2f", total), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[2]+widths[3], 8, "", "1", 1, "", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
