package parser

import (
	"strings"

	"github.com/insightdelivered/statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// ICICISavingsParser handles ICICI Bank savings account statements.
//
// Each transaction starts with a DD-MM-YYYY date and may wrap over several
// lines. The amount columns are read positionally from the numeric tokens of
// the whole block:
//
//	3 tokens: deposit, withdrawal, balance
//	2 tokens: deposit, balance
//	otherwise: balance only
//
// Example: "01-08-2025 NEFT-SALARY ACME LTD 10,500.00 95,507.37"
type ICICISavingsParser struct {
	categorizer *categorizer.Categorizer
}

func (p *ICICISavingsParser) BankName() string {
	return "ICICI Savings"
}

var iciciSavingsMetadata = mustMetadata("ICICI Bank", "ICICISavingsBankStatementParser", false)

// Positions of the amount columns by numeric token count.
const (
	iciciSavingsFullColumns    = 3 // deposit, withdrawal, balance
	iciciSavingsDepositColumns = 2 // deposit, balance
)

func (p *ICICISavingsParser) Parse(text string) ([]models.RawTransaction, models.SourceMetadata) {
	var transactions []models.RawTransaction

	for _, b := range splitBlocks(text, startsWithDashDate) {
		entry := b.joined()
		date := datePatternDash.FindString(entry)
		if date == "" {
			continue
		}

		fields := strings.Fields(entry)
		amounts := numericTokens(fields)

		var deposit, withdrawal, balance float64
		hasBalance := len(amounts) > 0
		switch len(amounts) {
		case iciciSavingsFullColumns:
			deposit, withdrawal, balance = amounts[0], amounts[1], amounts[2]
		case iciciSavingsDepositColumns:
			deposit, balance = amounts[0], amounts[1]
		default:
			if hasBalance {
				balance = amounts[len(amounts)-1]
			}
		}

		desc := descriptionBeforeAmount(fields)
		category := p.categorizer.Categorize(desc)
		bal := ""
		if hasBalance {
			bal = formatAmount(balance)
		}

		if deposit > 0 {
			transactions = append(transactions, models.RawTransaction{
				Date:        date,
				Description: desc,
				Amount:      formatAmount(deposit),
				Type:        models.TypeCredit,
				Category:    category,
				Balance:     bal,
			})
		}
		if withdrawal > 0 {
			transactions = append(transactions, models.RawTransaction{
				Date:        date,
				Description: desc,
				Amount:      formatAmount(-withdrawal),
				Type:        models.TypeDebit,
				Category:    category,
				Balance:     bal,
			})
		}
	}

	return transactions, iciciSavingsMetadata
}
