package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
)

// CSVExporter renders a payment statement into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the statement, newest payment first.
func (e *CSVExporter) Render(st Statement) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write([]string{"class", "amount", "currency", "transaction_ref", "paid_at"}); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range st.Rows {
		record := []string{
			row.ClassTitle,
			fmt.Sprintf("%.2f", row.Amount),
			strings.ToUpper(row.Currency),
			row.TransactionRef,
			row.PaidAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
