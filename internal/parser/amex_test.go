package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/statement-analyzer/internal/models"
)

func TestAmexParser_Parse(t *testing.T) {
	p := &AmexParser{categorizer: categorizer.Default(), year: 2025}

	text := `American Express Statement
August 2025
August 2 Paytm*UBERINDIASYSTEMSP Noida 159.93
August 2 IRCTC DELHI 1,390.00 Cr
Aug 3 Billdesk*AMAZON MUM 2,504.00
Sept 4 BOOKMYSHOW 1390.00
MUMBAI IN
Total 4,053.93`

	rows, meta := p.Parse(text)

	assert.Equal(t, "Amex_CreditCard", meta.Source)
	assert.True(t, meta.IsCreditCard)
	require.Len(t, rows, 4)

	assert.Equal(t, models.RawTransaction{
		Date:        "2025-08-02",
		Description: "Paytm*UBERINDIASYSTEMSP Noida",
		Amount:      "159.93",
		Type:        models.TypeDebit,
		Category:    models.CategoryTravel,
	}, rows[0])

	assert.Equal(t, "IRCTC DELHI", rows[1].Description)
	assert.Equal(t, "-1390", rows[1].Amount)
	assert.Equal(t, models.TypeCredit, rows[1].Type)

	assert.Equal(t, "2025-08-03", rows[2].Date)
	assert.Equal(t, models.CategoryShopping, rows[2].Category)

	// Unrecognized month names fall back to August. "Total 4,053.93" opens a
	// block but has too few fields to be a transaction.
	assert.Equal(t, "2025-08-04", rows[3].Date)
	assert.Equal(t, "1390", rows[3].Amount)
	assert.Equal(t, "BOOKMYSHOW MUMBAI IN", rows[3].Description)
	assert.Equal(t, models.CategoryEntertainment, rows[3].Category)
}

func TestAmexParser_CrWithDot(t *testing.T) {
	p := &AmexParser{categorizer: categorizer.Default(), year: 2024}

	rows, _ := p.Parse("December 31 INFINITI PAYMENT RECEIVED 10,000.00 Cr.")
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-12-31", rows[0].Date)
	assert.Equal(t, "-10000", rows[0].Amount)
	assert.Equal(t, models.TypeCredit, rows[0].Type)
	assert.Equal(t, models.CategoryPayment, rows[0].Category)
}

func TestYearFromFileName(t *testing.T) {
	assert.Equal(t, 2025, yearFromFileName("/data/Amex Credit Card Statement 2025-08-28.pdf"))
	assert.Equal(t, 2023, yearFromFileName("amex_2023.txt"))
	assert.Equal(t, time.Now().Year(), yearFromFileName("/2019/amex_statement.txt"))
}

func TestAmexMonth(t *testing.T) {
	assert.Equal(t, time.January, amexMonth("January"))
	assert.Equal(t, time.March, amexMonth("mar"))
	assert.Equal(t, time.August, amexMonth("Foo"))
}

func TestAmexParser_LakhGroupedAmounts(t *testing.T) {
	p := &AmexParser{categorizer: categorizer.Default(), year: 2025}

	rows, _ := p.Parse("August 12 AIR INDIA 1,23,456.00\nAugust 13 UBER 1,00,000.00 Cr\nSept 3 SWIGGY 100.00")
	require.Len(t, rows, 3)

	assert.Equal(t, "AIR INDIA", rows[0].Description)
	assert.Equal(t, "123456", rows[0].Amount)
	assert.Equal(t, models.TypeDebit, rows[0].Type)

	assert.Equal(t, "UBER", rows[1].Description)
	assert.Equal(t, "-100000", rows[1].Amount)
	assert.Equal(t, models.TypeCredit, rows[1].Type)

	assert.Equal(t, "SWIGGY", rows[2].Description)
	assert.Equal(t, "100", rows[2].Amount)
}
