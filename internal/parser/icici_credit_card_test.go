package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/statement-analyzer/internal/models"
)

func TestICICICreditCardParser_Parse(t *testing.T) {
	p := &ICICICreditCardParser{categorizer: categorizer.Default()}

	text := `Statement Summary
Transaction Details
10-08-2025 Fuel Trxn Onus 21.25 Cr. 11760327291
09-08-2025 CHOUDHARY AISHI RAM BA, DELHI, IND 2124.78 Dr. 11760327288
08-08-2025 ZOMATO ONLINE ORDER 1,250.50 Dr. 11760327100
GURGAON IN
Reward points 12`

	rows, meta := p.Parse(text)

	assert.Equal(t, "ICICI_CreditCard", meta.Source)
	assert.True(t, meta.IsCreditCard)
	require.Len(t, rows, 3)

	assert.Equal(t, models.RawTransaction{
		Date:        "10-08-2025",
		Description: "Fuel Trxn Onus",
		Amount:      "-21.25",
		Type:        models.TypeCredit,
		Category:    models.CategoryFuel,
		Reference:   "11760327291",
	}, rows[0])

	assert.Equal(t, "CHOUDHARY AISHI RAM BA, DELHI, IND", rows[1].Description)
	assert.Equal(t, "2124.78", rows[1].Amount)
	assert.Equal(t, models.TypeDebit, rows[1].Type)
	assert.Equal(t, models.CategoryOther, rows[1].Category)

	// Wrapped lines join the description with single spaces.
	assert.Equal(t, "ZOMATO ONLINE ORDER GURGAON IN Reward points 12", rows[2].Description)
	assert.Equal(t, "1250.5", rows[2].Amount)
	assert.Equal(t, models.CategoryFood, rows[2].Category)
}

func TestICICICreditCardParser_UnmatchedDateLineEndsContinuation(t *testing.T) {
	p := &ICICICreditCardParser{categorizer: categorizer.Default()}

	text := `10-08-2025 UBER TRIP 300.00 Dr. 11760327291
MUMBAI
11-08-25 Opening balance carried
noise after bad date line`

	rows, _ := p.Parse(text)
	require.Len(t, rows, 1)
	assert.Equal(t, "UBER TRIP MUMBAI", rows[0].Description)
	assert.Equal(t, models.CategoryTravel, rows[0].Category)
}

func TestICICICreditCardParser_ShortReferenceIsNoise(t *testing.T) {
	p := &ICICICreditCardParser{categorizer: categorizer.Default()}

	rows, _ := p.Parse("10-08-2025 Zomato Order 500.00 Dr. 1234567")
	assert.Empty(t, rows)
}
