package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/statement-analyzer/internal/models"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected models.BankType
		wantErr  bool
	}{
		{
			name:     "icici credit card folder",
			path:     "/data/raw/2025/08/icici/credit_card/stmt.pdf",
			expected: models.BankICICICreditCard,
		},
		{
			name:     "icici savings folder",
			path:     "/data/raw/2025/08/icici/bank/stmt.pdf",
			expected: models.BankICICISavings,
		},
		{
			name:     "icici credit card in file name",
			path:     "uploads/icici_credit_card_statement.txt",
			expected: models.BankICICICreditCard,
		},
		{
			name:     "icici statement in file name",
			path:     "ICICI August Statement.pdf",
			expected: models.BankICICISavings,
		},
		{
			name:     "credit card wins over bank for icici",
			path:     "/icici/bank/Credit-Card.pdf",
			expected: models.BankICICICreditCard,
		},
		{
			name:     "axis folder",
			path:     "/data/raw/axis/bank/stmt.pdf",
			expected: models.BankAxis,
		},
		{
			name:     "amex file name",
			path:     "Amex Credit Card Statement 2025-08-28.pdf",
			expected: models.BankAmex,
		},
		{
			name:     "icici without secondary token falls through to axis",
			path:     "/icici/axis/stmt.pdf",
			expected: models.BankAxis,
		},
		{
			name:    "icici without secondary token and no other key",
			path:    "/icici/2025/stmt.pdf",
			wantErr: true,
		},
		{
			name:    "unknown institution",
			path:    "/data/raw/unknown/stmt.pdf",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.path)
			if tt.wantErr {
				var unrecognized *UnrecognizedStatementError
				require.Error(t, err)
				assert.True(t, errors.As(err, &unrecognized))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestUnrecognizedStatementError_ListsPathTokens(t *testing.T) {
	_, err := Detect("/data/raw/unknown_bank/my-stmt.pdf")
	require.Error(t, err)

	var unrecognized *UnrecognizedStatementError
	require.True(t, errors.As(err, &unrecognized))
	assert.Equal(t, "my stmt.pdf", unrecognized.FileName)
	assert.Equal(t, []string{"data", "raw", "unknown bank"}, unrecognized.Folders)
	assert.Contains(t, err.Error(), "my stmt.pdf")
}

func TestNew(t *testing.T) {
	tests := []struct {
		bankType models.BankType
		wantName string
		wantErr  bool
	}{
		{models.BankICICICreditCard, "ICICI Credit Card", false},
		{models.BankICICISavings, "ICICI Savings", false},
		{models.BankAxis, "Axis Bank", false},
		{models.BankAmex, "American Express", false},
		{"unknown", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.bankType), func(t *testing.T) {
			p, err := New(tt.bankType, "statement.txt")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.BankName())
		})
	}
}

func TestParsers_NoiseLineYieldsNoRows(t *testing.T) {
	noise := "Statement of account for the period\nPage 1\n--------"

	for _, bank := range detectionOrder {
		t.Run(string(bank), func(t *testing.T) {
			p, err := New(bank, "statement.txt")
			require.NoError(t, err)

			rows, meta := p.Parse(noise)
			assert.Empty(t, rows)
			assert.NoError(t, meta.Validate())
		})
	}
}

func TestParsers_MetadataAccountType(t *testing.T) {
	tests := []struct {
		bank       models.BankType
		creditCard bool
	}{
		{models.BankICICICreditCard, true},
		{models.BankICICISavings, false},
		{models.BankAxis, false},
		{models.BankAmex, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.bank), func(t *testing.T) {
			p, err := New(tt.bank, "statement.txt")
			require.NoError(t, err)
			_, meta := p.Parse("")
			assert.Equal(t, tt.creditCard, meta.IsCreditCard)
		})
	}
}

func TestNew_WithCategorizer(t *testing.T) {
	rules := categorizer.New([]categorizer.Rule{{Keyword: "irctc", Category: models.CategoryTravel}})

	p, err := New(models.BankAmex, "amex_2025.txt", WithCategorizer(rules))
	require.NoError(t, err)

	rows, _ := p.Parse("August 2 IRCTC DELHI 1,390.00\nAugust 3 SWIGGY 100.00")
	require.Len(t, rows, 2)
	assert.Equal(t, models.CategoryTravel, rows[0].Category)
	assert.Equal(t, models.CategoryOther, rows[1].Category)
}

func TestMustMetadata(t *testing.T) {
	m := mustMetadata("Axis Bank", "AxisBankStatementParser", false)
	assert.Equal(t, models.AccountBank, m.AccountType())

	assert.Panics(t, func() { mustMetadata("", "AxisBankStatementParser", false) })
	assert.Panics(t, func() { mustMetadata("Axis Bank", "", false) })
}
