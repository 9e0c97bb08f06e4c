package parser

import (
	"strings"

	"github.com/insightdelivered/statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// AxisParser handles Axis Bank account statements.
//
// Amount columns are read positionally from the numeric tokens of the dated
// line, with withdrawal before deposit:
//
//	3 tokens: withdrawal, deposit, balance
//	2 tokens: deposit, balance
//	otherwise: balance only
//
// Example: "01-08-2025 UPI/P2M/521303531178/JASODA KALUDAS VAISHN/Sent u/YES BANK LIMITED YBS 161.00 3,493.42"
//
// Wrapped text on the following lines is appended to the description only.
type AxisParser struct {
	categorizer *categorizer.Categorizer
}

func (p *AxisParser) BankName() string {
	return "Axis Bank"
}

var axisMetadata = mustMetadata("Axis Bank", "AxisBankStatementParser", false)

const (
	axisFullColumns    = 3 // withdrawal, deposit, balance
	axisDepositColumns = 2 // deposit, balance
)

func (p *AxisParser) Parse(text string) ([]models.RawTransaction, models.SourceMetadata) {
	var transactions []models.RawTransaction

	for _, b := range splitBlocks(text, startsWithDashDate) {
		date := datePatternDash.FindString(b.head)
		fields := strings.Fields(b.head)
		amounts := numericTokens(fields)

		var withdrawal, deposit, balance float64
		hasBalance := len(amounts) > 0
		switch len(amounts) {
		case axisFullColumns:
			withdrawal, deposit, balance = amounts[0], amounts[1], amounts[2]
		case axisDepositColumns:
			deposit, balance = amounts[0], amounts[1]
		default:
			if hasBalance {
				balance = amounts[len(amounts)-1]
			}
		}

		desc := appendDescription(descriptionBeforeAmount(fields), b.continuation())
		category := p.categorizer.Categorize(desc)
		bal := ""
		if hasBalance {
			bal = formatAmount(balance)
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
	}

	return transactions, axisMetadata
}
