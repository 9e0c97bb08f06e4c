package models

import (
	"errors"
	"time"
)

// DateLayout is the canonical calendar date format.
const DateLayout = "2006-01-02"

// BankType identifies a statement grammar.
type BankType string

const (
	BankICICICreditCard BankType = "icici_credit_card"
	BankICICISavings    BankType = "icici_savings"
	BankAxis            BankType = "axis"
	BankAmex            BankType = "amex"
)

// Transaction types as printed by the institutions.
const (
	TypeDebit  = "Debit"
	TypeCredit = "Credit"
)

// AccountType is derived from source metadata, never from row content.
type AccountType string

const (
	AccountBank       AccountType = "BankAccount"
	AccountCreditCard AccountType = "CreditCard"
)

// Category is one of a closed set.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTravel        Category = "Travel"
	CategoryShopping      Category = "Shopping"
	CategoryFuel          Category = "Fuel"
	CategoryEntertainment Category = "Entertainment"
	CategoryPayment       Category = "Payment"
	CategoryOther         Category = "Other"
)

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTravel, CategoryShopping, CategoryFuel,
		CategoryEntertainment, CategoryPayment, CategoryOther:
		return true
	}
	return false
}

// RawTransaction is a single row as emitted by a statement parser.
// Amount keeps the parser's sign convention; Balance and Reference are
// empty when the institution does not print them.
type RawTransaction struct {
	Date        string   `json:"date" csv:"date"`
	Description string   `json:"description" csv:"description"`
	Amount      string   `json:"amount" csv:"amount"`
	Type        string   `json:"type" csv:"type"`
	Category    Category `json:"category,omitempty" csv:"category"`
	Balance     string   `json:"balance,omitempty" csv:"balance"`
	Reference   string   `json:"reference,omitempty" csv:"reference"`
}

// SourceMetadata applies to every row of one parse invocation.
type SourceMetadata struct {
	Source       string `json:"source"`
	IsCreditCard bool   `json:"is_credit_card"`
	Parser       string `json:"parser"`
}

// NewSourceMetadata validates and builds a SourceMetadata.
func NewSourceMetadata(source, parser string, isCreditCard bool) (SourceMetadata, error) {
	m := SourceMetadata{Source: source, IsCreditCard: isCreditCard, Parser: parser}
	if err := m.Validate(); err != nil {
		return SourceMetadata{}, err
	}
	return m, nil
}

// Validate checks that the identifying fields are set.
func (m SourceMetadata) Validate() error {
	if m.Source == "" {
		return errors.New("source metadata: source is required")
	}
	if m.Parser == "" {
		return errors.New("source metadata: parser is required")
	}
	return nil
}

// AccountType maps the credit-card flag onto the account enum.
func (m SourceMetadata) AccountType() AccountType {
	if m.IsCreditCard {
		return AccountCreditCard
	}
	return AccountBank
}

// CanonicalTransaction is the standardized, institution-agnostic row.
type CanonicalTransaction struct {
	TransactionID    string      `json:"transaction_id" csv:"transaction_id"`
	Date             string      `json:"date" csv:"date"` // DateLayout when parsed, otherwise the raw value
	Description      string      `json:"description" csv:"description"`
	DescriptionClean string      `json:"description_clean" csv:"description_clean"`
	Category         Category    `json:"category" csv:"category"`
	Type             string      `json:"type" csv:"type"`
	Amount           float64     `json:"amount" csv:"amount"`
	AmountValue      float64     `json:"amount_value" csv:"amount_value"`
	AmountDisplay    string      `json:"amount_display" csv:"amount_display"`
	Balance          string      `json:"balance,omitempty" csv:"balance"`
	Reference        string      `json:"reference,omitempty" csv:"reference"`
	AccountType      AccountType `json:"account_type" csv:"account_type"`
	Source           string      `json:"source" csv:"source"`
	IsCreditCard     bool        `json:"is_credit_card" csv:"is_credit_card"`
}

// ParsedDate returns the calendar date when Date holds a standardized value.
func (t CanonicalTransaction) ParsedDate() (time.Time, bool) {
	d, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Raw projects a canonical row back onto the parser row shape so it can be
// standardized again.
func (t CanonicalTransaction) Raw() RawTransaction {
	return RawTransaction{
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.AmountDisplay,
		Type:        t.Type,
		Category:    t.Category,
		Balance:     t.Balance,
		Reference:   t.Reference,
	}
}
