package parser

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/insightdelivered/statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// AmexParser handles American Express credit card statements.
//
// Lines start with "MonthName Day" and no year; the year comes from the
// statement file name. The trailing amount may carry a Cr marker:
//
//	"August 2 Paytm*UBERINDIASYSTEMSP Noida 159.93"
//	"August 2 IRCTC DELHI 1,390.00 Cr"
type AmexParser struct {
	categorizer *categorizer.Categorizer
	year        int
}

func (p *AmexParser) BankName() string {
	return "American Express"
}

var amexMetadata = mustMetadata("Amex_CreditCard", "AmexCreditCardParser", true)

// Statements printed without a recognizable month name fall back to August.
const amexFallbackMonth = time.August

// Minimum whitespace-separated fields on a transaction line: month, day, amount.
const amexMinFields = 3

var (
	amexDatePattern   = regexp.MustCompile(`^([A-Za-z]+) (\d{1,2})\b`)
	amexAmountPattern = regexp.MustCompile(`(?:^|\s)(\d[\d,]*(?:\.\d{2})?)\s*(Cr\.?)?$`)
	yearPattern       = regexp.MustCompile(`\d{4}`)
)

// yearFromFileName returns the first four-digit run in the file name, or the
// current year.
func yearFromFileName(path string) int {
	if m := yearPattern.FindString(filepath.Base(path)); m != "" {
		if y, err := strconv.Atoi(m); err == nil {
			return y
		}
	}
	return time.Now().Year()
}

// amexMonth parses a full or abbreviated month name.
func amexMonth(name string) time.Month {
	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.Parse(layout, name); err == nil {
			return t.Month()
		}
	}
	return amexFallbackMonth
}

func (p *AmexParser) Parse(text string) ([]models.RawTransaction, models.SourceMetadata) {
	var transactions []models.RawTransaction

	for _, b := range splitBlocks(text, amexDatePattern.MatchString) {
		if txn, ok := p.parseLine(b.head); ok {
			txn.Description = appendDescription(txn.Description, b.continuation())
			txn.Category = p.categorizer.Categorize(txn.Description)
			transactions = append(transactions, txn)
		}
	}

	return transactions, amexMetadata
}

func (p *AmexParser) parseLine(line string) (models.RawTransaction, bool) {
	dm := amexDatePattern.FindStringSubmatchIndex(line)
	if dm == nil || len(strings.Fields(line)) < amexMinFields {
		return models.RawTransaction{}, false
	}
	day, err := strconv.Atoi(line[dm[4]:dm[5]])
	if err != nil {
		return models.RawTransaction{}, false
	}
	month := amexMonth(line[dm[2]:dm[3]])

	rest := line[dm[1]:]
	am := amexAmountPattern.FindStringSubmatchIndex(rest)
	if am == nil {
		return models.RawTransaction{}, false
	}
	amount, err := parseAmount(rest[am[2]:am[3]])
	if err != nil {
		return models.RawTransaction{}, false
	}

	txnType := models.TypeDebit
	if am[4] >= 0 {
		txnType = models.TypeCredit
		amount = -amount
	}

	return models.RawTransaction{
		Date:        formatAmexDate(p.year, month, day),
		Description: strings.TrimSpace(rest[:am[2]]),
		Amount:      formatAmount(amount),
		Type:        txnType,
	}, true
}

// formatAmexDate writes YYYY-MM-DD without validating the day, so an
// impossible date survives as text through standardization.
func formatAmexDate(year int, month time.Month, day int) string {
	return strconv.Itoa(year) + "-" + twoDigits(int(month)) + "-" + twoDigits(day)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
