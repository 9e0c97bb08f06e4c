package writer

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-analyzer/internal/analyzer"
	"github.com/insightdelivered/statement-analyzer/internal/models"
)

func sampleRows() []models.CanonicalTransaction {
	return []models.CanonicalTransaction{
		{
			TransactionID:    "0b0f4a54-6f1e-5c1a-9d67-2f7c8f0e1a01",
			Date:             "2025-08-10",
			Description:      "Fuel Trxn Onus",
			DescriptionClean: "fuel trxn onus",
			Category:         models.CategoryFuel,
			Type:             models.TypeCredit,
			Amount:           -21.25,
			AmountValue:      -21.25,
			AmountDisplay:    "-₹21.25",
			Reference:        "11760327291",
			AccountType:      models.AccountCreditCard,
			Source:           "ICICI_CreditCard",
			IsCreditCard:     true,
		},
		{
			TransactionID:    "0b0f4a54-6f1e-5c1a-9d67-2f7c8f0e1a02",
			Date:             "2025-08-02",
			Description:      "POS/BATA INDIA, NEW DELHI",
			DescriptionClean: "posbata india new delhi",
			Category:         models.CategoryShopping,
			Type:             models.TypeDebit,
			Amount:           -1200,
			AmountValue:      -1200,
			AmountDisplay:    "-₹1,200.00",
			Balance:          "2293.42",
			AccountType:      models.AccountBank,
			Source:           "Axis Bank",
		},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, sampleRows()))

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		"transaction_id,date,description,description_clean,category,type,amount,amount_value,amount_display,balance,reference,account_type,source,is_credit_card",
		lines[0])
	assert.Contains(t, output, "Fuel Trxn Onus")
	assert.Contains(t, output, `"POS/BATA INDIA, NEW DELHI"`)
	assert.Contains(t, output, "-₹1,200.00")
}

func TestCSVWriter_WriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CSVWriter{}).Write(&buf, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "transaction_id,date"))
}

func TestCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	rows := sampleRows()

	require.NoError(t, (&CSVWriter{}).WriteToFile(path, rows))

	loaded, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, rows, loaded)
}

func TestLoadCSV_Missing(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestReadCSV_NonFiniteAmountAnalyzes(t *testing.T) {
	rows := sampleRows()
	rows[0].AmountValue = math.NaN()
	rows[1].AmountValue = math.Inf(-1)

	var buf bytes.Buffer
	require.NoError(t, (&CSVWriter{}).Write(&buf, rows))

	loaded, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.True(t, math.IsNaN(loaded[0].AmountValue))

	var summary models.Summary
	require.NotPanics(t, func() { summary = analyzer.Analyze(loaded) })
	assert.Zero(t, summary.CreditCard.Payments)
	assert.Zero(t, summary.Bank.TotalExpenses)
}
