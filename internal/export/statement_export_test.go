package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleStatement() *domain.Statement {
	at := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	return &domain.Statement{
		Summary: domain.CreditSummary{
			ClientID:           "client-1",
			CreditLimit:        decimal.NewFromInt(1000),
			CurrentBalance:     decimal.NewFromInt(250),
			AvailableCredit:    decimal.NewFromInt(750),
			UtilizationPercent: decimal.NewFromInt(25),
			Status:             domain.CreditStatusActive,
			PaymentTerms:       domain.PaymentTermsNet30,
			PaymentTermDays:    30,
		},
		Client: &domain.Client{ClientID: "client-1", FullName: "Ada Lovelace", CompanyName: "Analytical Engines Ltd"},
		Entries: []domain.LedgerEntry{
			{EntryID: "e2", Type: domain.EntryTypePurchase, Amount: decimal.NewFromInt(250), BalanceAfter: decimal.NewFromInt(250), Description: "Booking #42", CreatedAt: at},
			{EntryID: "e1", Type: domain.EntryTypeCreditGranted, Description: "Credit line of 1000.00 granted", CreatedAt: at.Add(-time.Hour)},
		},
		TotalCount:  3,
		GeneratedAt: at,
	}
}

func TestBuildStatementPDF(t *testing.T) {
	content, err := BuildStatementPDF(sampleStatement())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")), "output should be a PDF document")
}

func TestBuildStatementXLSX(t *testing.T) {
	content, err := BuildStatementXLSX(sampleStatement())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	client, err := f.GetCellValue("summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Analytical Engines Ltd (Ada Lovelace)", client)

	rows, err := f.GetRows("transactions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "PURCHASE", rows[1][1])
	assert.Equal(t, "e1", rows[2][5])
}

func TestRender(t *testing.T) {
	doc, err := Render(FormatPDF, sampleStatement())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "credit-statement-client-1-20240502.pdf", doc.FileName)

	doc, err = Render(FormatXLSX, sampleStatement())
	require.NoError(t, err)
	assert.Equal(t, "credit-statement-client-1-20240502.xlsx", doc.FileName)

	_, err = Render("csv", sampleStatement())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
