package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/SscSPs/credit_ledger_app/internal/observability/metrics"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Supported statement formats.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// Document is a rendered statement ready to be served.
type Document struct {
	Content     []byte
	ContentType string
	FileName    string
}

// Render renders stmt in the requested format.
func Render(format string, stmt *domain.Statement) (_ *Document, err error) {
	start := time.Now()
	defer func() {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.ObserveStatementExport(format, result, time.Since(start))
	}()

	name := fmt.Sprintf("credit-statement-%s-%s.%s", stmt.Summary.ClientID, stmt.GeneratedAt.Format("20060102"), format)
	switch format {
	case FormatPDF:
		content, err := BuildStatementPDF(stmt)
		if err != nil {
			return nil, err
		}
		return &Document{Content: content, ContentType: "application/pdf", FileName: name}, nil
	case FormatXLSX:
		content, err := BuildStatementXLSX(stmt)
		if err != nil {
			return nil, err
		}
		return &Document{Content: content, ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FileName: name}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported statement format %q", apperrors.ErrValidation, format)
	}
}

// BuildStatementPDF renders a one-section PDF: header, balances, then the ledger table.
func BuildStatementPDF(stmt *domain.Statement) ([]byte, error) {
	sum := stmt.Summary

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Credit Account Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Client: %s", clientLabel(stmt)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", sum.Status))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Payment terms: %s (%d days)", sum.PaymentTerms, sum.PaymentTermDays))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", stmt.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.Cell(0, 6, fmt.Sprintf("Credit limit: %s", sum.CreditLimit.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Current balance: %s", sum.CurrentBalance.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Available credit: %s", sum.AvailableCredit.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Utilization: %s%%", sum.UtilizationPercent.StringFixed(2)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(35, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, "Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Amount", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Balance", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, e := range stmt.Entries {
		pdf.CellFormat(35, 6, e.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, string(e.Type), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, truncate(e.Description, 38), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, e.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, e.BalanceAfter.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	if len(stmt.Entries) < stmt.TotalCount {
		pdf.Ln(4)
		pdf.Cell(0, 6, fmt.Sprintf("Showing the %d most recent of %d transactions.", len(stmt.Entries), stmt.TotalCount))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildStatementXLSX renders a workbook with a summary sheet and a transactions sheet.
func BuildStatementXLSX(stmt *domain.Statement) ([]byte, error) {
	sum := stmt.Summary

	f := excelize.NewFile()
	defer f.Close()
	summarySheet := "summary"
	entriesSheet := "transactions"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(entriesSheet); err != nil {
		return nil, err
	}

	rows := [][2]any{
		{"Client", clientLabel(stmt)},
		{"Status", string(sum.Status)},
		{"Payment terms", string(sum.PaymentTerms)},
		{"Payment term days", sum.PaymentTermDays},
		{"Credit limit", sum.CreditLimit.InexactFloat64()},
		{"Current balance", sum.CurrentBalance.InexactFloat64()},
		{"Available credit", sum.AvailableCredit.InexactFloat64()},
		{"Utilization %", sum.UtilizationPercent.InexactFloat64()},
		{"Transactions", stmt.TotalCount},
		{"Generated", stmt.GeneratedAt.Format(time.RFC3339)},
	}
	_ = f.SetCellValue(summarySheet, "A1", "Credit Account Statement")
	for i, row := range rows {
		r := i + 3
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", r), row[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", r), row[1])
	}

	headers := []string{"Date", "Type", "Description", "Amount", "Balance After", "Entry ID"}
	if err := f.SetSheetRow(entriesSheet, "A1", &headers); err != nil {
		return nil, err
	}
	for i, e := range stmt.Entries {
		row := []any{
			e.CreatedAt.Format(time.RFC3339),
			string(e.Type),
			e.Description,
			e.Amount.InexactFloat64(),
			e.BalanceAfter.InexactFloat64(),
			e.EntryID,
		}
		if err := f.SetSheetRow(entriesSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clientLabel(stmt *domain.Statement) string {
	if stmt.Client == nil {
		return stmt.Summary.ClientID
	}
	if stmt.Client.CompanyName != "" {
		return fmt.Sprintf("%s (%s)", stmt.Client.CompanyName, stmt.Client.FullName)
	}
	return stmt.Client.FullName
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
