package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// ICICICreditCardParser handles ICICI Bank credit card statements.
//
// Transaction lines carry a Dr./Cr. marker and a reference number:
//
//	"10-08-2025 Fuel Trxn Onus 21.25 Cr. 11760327291"
//	"09-08-2025 CHOUDHARY AISHI RAM BA, DELHI, IND 2124.78 Dr. 11760327288"
//
// Long merchant names wrap onto following lines without a date.
// Amounts are positive for spend; Cr. rows (refunds, payments) are negated.
type ICICICreditCardParser struct {
	categorizer *categorizer.Categorizer
}

func (p *ICICICreditCardParser) BankName() string {
	return "ICICI Credit Card"
}

var iciciCardMetadata = mustMetadata("ICICI_CreditCard", "ICICICreditCardParser", true)

const iciciCardCreditMarker = "Cr."

var iciciCardTxnPattern = regexp.MustCompile(
	`^(\d{2}-\d{2}-\d{4})\s+(.+?)\s+(\d[\d,]*(?:\.\d+)?)\s*(Dr\.|Cr\.)\s*(\d{8,})$`,
)

// Any date-like prefix ends a wrapped description, including two-digit years.
var iciciCardAnyDate = regexp.MustCompile(`^\d{2}-\d{2}-\d{2,4}`)

func (p *ICICICreditCardParser) Parse(text string) ([]models.RawTransaction, models.SourceMetadata) {
	var transactions []models.RawTransaction

	for _, b := range splitBlocks(text, iciciCardAnyDate.MatchString) {
		m := iciciCardTxnPattern.FindStringSubmatch(b.head)
		if m == nil {
			// Date-led noise: the block and its tail are dropped.
			continue
		}

		amount, err := parseAmount(m[3])
		if err != nil {
			continue
		}

		txnType := models.TypeDebit
		if m[4] == iciciCardCreditMarker {
			txnType = models.TypeCredit
			amount = -amount
		}

		desc := appendDescription(strings.TrimSpace(m[2]), b.continuation())
		transactions = append(transactions, models.RawTransaction{
			Date:        m[1],
			Description: desc,
			Amount:      formatAmount(amount),
			Type:        txnType,
			Category:    p.categorizer.Categorize(desc),
			Reference:   m[5],
		})
	}

	return transactions, iciciCardMetadata
}
