// Package standardizer reconciles parser rows into the canonical transaction schema.
//
// Standardization is lenient: a missing or unparseable field is replaced by a
// default and reported as a Warning, and every input row yields exactly one
// output row.
package standardizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// Warning describes a field that was defaulted or kept unparsed.
type Warning struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d: %s %q: %s", w.Row, w.Field, w.Value, w.Message)
}

// Result carries the standardized rows together with non-fatal warnings.
type Result struct {
	Transactions []models.CanonicalTransaction `json:"transactions"`
	Warnings     []Warning                     `json:"warnings"`
}

// Standardizer converts RawTransaction rows into CanonicalTransaction rows.
type Standardizer struct {
	categorizer *categorizer.Categorizer
	currency    string
	log         zerolog.Logger
}

// Option customizes a Standardizer built by New.
type Option func(*Standardizer)

// WithCurrency sets the ISO 4217 code used for amount_display. Codes unknown
// to go-money are ignored.
func WithCurrency(code string) Option {
	return func(s *Standardizer) {
		code = strings.ToUpper(strings.TrimSpace(code))
		if money.GetCurrency(code) != nil {
			s.currency = code
		}
	}
}

// New returns a Standardizer. A nil categorizer uses the default rules and
// amounts are displayed in rupees unless WithCurrency says otherwise.
func New(c *categorizer.Categorizer, log zerolog.Logger, opts ...Option) *Standardizer {
	if c == nil {
		c = categorizer.Default()
	}
	s := &Standardizer{categorizer: c, currency: money.INR, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Currency returns the display currency code.
func (s *Standardizer) Currency() string {
	return s.currency
}

// dateLayouts are tried in order. Day-first layouts come before ISO so that
// 01-02-2025 reads as 1 February.
var dateLayouts = []string{
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	"2-1-06",
	"2/1/06",
	models.DateLayout,
	"2006/01/02",
	"2-Jan-2006",
	"2 Jan 2006",
	"2-Jan-06",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
}

// ParseDate reads s with the day-first layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var amountReplacer = strings.NewReplacer(
	"₹", "",
	"Rs.", "",
	"INR", "",
	",", "",
	" ", "",
	"\u00a0", "",
)

// ParseAmount strips currency symbols and thousands separators and parses
// the remainder. NaN and infinities are rejected.
func ParseAmount(s string) (float64, error) {
	clean := amountReplacer.Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount %q is not a finite number", s)
	}
	return v, nil
}

// FormatINR renders v as an Indian rupee amount, e.g. "₹1,234.56" or "-₹21.25".
func FormatINR(v float64) string {
	return FormatAmount(v, money.INR)
}

// FormatAmount renders v in the currency identified by code, rounded to the
// currency's minor unit.
func FormatAmount(v float64, code string) string {
	currency := money.GetCurrency(code)
	if currency == nil {
		code, currency = money.INR, money.GetCurrency(money.INR)
	}
	multiplier := decimal.New(1, int32(currency.Fraction))
	minor := decimal.NewFromFloat(v).Mul(multiplier).Round(0).IntPart()
	return money.New(minor, code).Display()
}

// parseAmount also strips the display currency's own symbol and code, so
// amount_display values read back in any configured currency.
func (s *Standardizer) parseAmount(v string) (float64, error) {
	if cur := money.GetCurrency(s.currency); cur != nil {
		v = strings.NewReplacer(cur.Grapheme, "", cur.Code, "").Replace(v)
		if cur.Decimal != "." {
			v = strings.NewReplacer(cur.Thousand, "", cur.Decimal, ".").Replace(v)
		}
	}
	return ParseAmount(v)
}

// transactionNamespace scopes the name-based transaction identifiers.
var transactionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("statement-analyzer/transaction"))

// Standardize maps rows onto the canonical schema under meta. The only error
// is invalid metadata; row problems become warnings.
func (s *Standardizer) Standardize(rows []models.RawTransaction, meta models.SourceMetadata) (Result, error) {
	if err := meta.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{
		Transactions: make([]models.CanonicalTransaction, 0, len(rows)),
		Warnings:     []Warning{},
	}
	seen := make(map[string]int)

	warn := func(row int, field, value, msg string) {
		w := Warning{Row: row, Field: field, Value: value, Message: msg}
		res.Warnings = append(res.Warnings, w)
		s.log.Warn().
			Str("source", meta.Source).
			Int("row", row).
			Str("field", field).
			Str("value", value).
			Msg(msg)
	}

	for i, raw := range rows {
		tx := models.CanonicalTransaction{
			Description:  strings.TrimSpace(raw.Description),
			Type:         strings.TrimSpace(raw.Type),
			Balance:      strings.TrimSpace(raw.Balance),
			Reference:    strings.TrimSpace(raw.Reference),
			AccountType:  meta.AccountType(),
			Source:       meta.Source,
			IsCreditCard: meta.IsCreditCard,
		}

		date := strings.TrimSpace(raw.Date)
		switch d, ok := ParseDate(date); {
		case date == "":
			warn(i, "date", date, "missing date")
		case ok:
			date = d.Format(models.DateLayout)
		default:
			warn(i, "date", date, "unparsed date kept as is")
		}
		tx.Date = date

		if tx.Description == "" {
			warn(i, "description", "", "missing description")
		}
		if tx.Type == "" {
			warn(i, "type", "", "missing type")
		}

		amount, err := s.parseAmount(raw.Amount)
		if err != nil {
			warn(i, "amount", raw.Amount, "unparseable amount defaulted to 0")
			amount = 0
		}
		amount = decimal.NewFromFloat(amount).Round(2).InexactFloat64()
		tx.Amount = amount
		tx.AmountValue = amount
		tx.AmountDisplay = FormatAmount(amount, s.currency)

		tx.DescriptionClean = categorizer.Clean(tx.Description)
		switch {
		case raw.Category.Valid():
			tx.Category = raw.Category
		case raw.Category != "":
			warn(i, "category", string(raw.Category), "unknown category recomputed")
			tx.Category = s.categorizer.CategorizeClean(tx.DescriptionClean)
		default:
			tx.Category = s.categorizer.CategorizeClean(tx.DescriptionClean)
		}

		key := strings.Join([]string{tx.Source, tx.Date, tx.Description, tx.AmountDisplay, tx.Reference}, "|")
		tx.TransactionID = uuid.NewSHA1(transactionNamespace,
			[]byte(key+"|"+strconv.Itoa(seen[key]))).String()
		seen[key]++

		res.Transactions = append(res.Transactions, tx)
	}

	s.log.Debug().
		Str("source", meta.Source).
		Int("rows", len(res.Transactions)).
		Int("warnings", len(res.Warnings)).
		Msg("standardized transactions")
	return res, nil
}
