package leave

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// BalanceStatementPDF renders an employee's current bucket balances as a PDF
// statement for HR records.
func (s *Service) BalanceStatementPDF(ctx context.Context, employeeID int64) ([]byte, error) {
	record, _, err := s.Store.BalanceRecord(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Balance Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee ID: %d", employeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("2006-01-02 15:04 MST")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 8, "Leave Type", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Available", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Approved", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, bucket := range Buckets {
		bal := record.Balance(bucket)
		pdf.CellFormat(90, 8, bucket.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", bal.Available), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", bal.Approved), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
