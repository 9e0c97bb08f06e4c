// Package analyzer aggregates canonical transactions into the financial summary.
package analyzer

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// UnknownMonth groups rows whose date could not be parsed.
const UnknownMonth = "unknown"

const (
	topCategoryLimit   = 5
	recurringThreshold = 2
)

var (
	incomeTypes  = map[string]bool{"credit": true, "refund/payment": true, "in": true}
	expenseTypes = map[string]bool{"debit": true, "expense": true, "out": true}
)

// IsIncome reports whether a transaction type counts as money in.
func IsIncome(txType string) bool {
	return incomeTypes[strings.ToLower(strings.TrimSpace(txType))]
}

// IsExpense reports whether a transaction type counts as money out.
func IsExpense(txType string) bool {
	return expenseTypes[strings.ToLower(strings.TrimSpace(txType))]
}

// Analyze splits rows by account type and summarizes each side. Amounts are
// aggregated as magnitudes so both parser sign conventions add up the same way:
// TotalIncome, TotalExpenses, Payments and every category or monthly sum are
// non-negative.
func Analyze(rows []models.CanonicalTransaction) models.Summary {
	var bank, card []models.CanonicalTransaction
	for _, tx := range rows {
		switch tx.AccountType {
		case models.AccountCreditCard:
			card = append(card, tx)
		default:
			bank = append(bank, tx)
		}
	}
	return models.Summary{
		Bank:       analyzeBank(bank),
		CreditCard: analyzeCreditCard(card),
	}
}

func analyzeBank(rows []models.CanonicalTransaction) models.BankSummary {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range rows {
		switch {
		case IsIncome(tx.Type):
			income = income.Add(magnitude(tx))
		case IsExpense(tx.Type):
			expense = expense.Add(magnitude(tx))
		}
	}
	savings := income.Sub(expense)

	return models.BankSummary{
		TotalIncome:       round(income),
		TotalExpenses:     round(expense),
		TotalSavings:      round(savings),
		NetCashFlow:       round(savings),
		MonthlyBreakdown:  monthly(rows),
		TopCategories:     topN(categoryTotals(rows), topCategoryLimit),
		RecurringPayments: recurring(rows),
	}
}

func analyzeCreditCard(rows []models.CanonicalTransaction) models.CreditCardSummary {
	payments, expense := decimal.Zero, decimal.Zero
	for _, tx := range rows {
		switch {
		case IsIncome(tx.Type):
			payments = payments.Add(magnitude(tx))
		case IsExpense(tx.Type):
			expense = expense.Add(magnitude(tx))
		}
	}

	series := monthly(rows)
	months := 0
	for _, m := range series {
		if m.Month != UnknownMonth {
			months++
		}
	}
	average := expense.Div(decimal.NewFromInt(int64(max(1, months))))

	return models.CreditCardSummary{
		TotalSpendByCategory: topN(categoryTotals(rows), -1),
		Payments:             round(payments),
		TotalExpenses:        round(expense),
		AverageMonthlySpend:  round(average),
		MonthlySpend:         series,
	}
}

// magnitude treats NaN and infinite amounts, which can only arrive from
// hand-edited CSVs, as zero.
func magnitude(tx models.CanonicalTransaction) decimal.Decimal {
	v := tx.AmountValue
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Abs()
}

func round(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func monthKey(tx models.CanonicalTransaction) string {
	d, ok := tx.ParsedDate()
	if !ok {
		return UnknownMonth
	}
	return d.Format("2006-01")
}

type monthSums struct {
	income, expense decimal.Decimal
}

// monthly returns calendar months in ascending order, with undated rows
// collected under UnknownMonth at the end.
func monthly(rows []models.CanonicalTransaction) []models.MonthlyTotal {
	sums := make(map[string]*monthSums)
	for _, tx := range rows {
		income, expense := IsIncome(tx.Type), IsExpense(tx.Type)
		if !income && !expense {
			continue
		}
		key := monthKey(tx)
		m, ok := sums[key]
		if !ok {
			m = &monthSums{}
			sums[key] = m
		}
		if income {
			m.income = m.income.Add(magnitude(tx))
		} else {
			m.expense = m.expense.Add(magnitude(tx))
		}
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == UnknownMonth || keys[j] == UnknownMonth {
			return keys[j] == UnknownMonth && keys[i] != UnknownMonth
		}
		return keys[i] < keys[j]
	})

	out := make([]models.MonthlyTotal, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.MonthlyTotal{
			Month:   k,
			Income:  round(sums[k].income),
			Expense: round(sums[k].expense),
		})
	}
	return out
}

type categorySum struct {
	category models.Category
	amount   decimal.Decimal
}

// categoryTotals sums expense rows per category in first-seen order.
func categoryTotals(rows []models.CanonicalTransaction) []categorySum {
	index := make(map[models.Category]int)
	var sums []categorySum
	for _, tx := range rows {
		if !IsExpense(tx.Type) {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(sums)
			index[tx.Category] = i
			sums = append(sums, categorySum{category: tx.Category})
		}
		sums[i].amount = sums[i].amount.Add(magnitude(tx))
	}
	return sums
}

// topN sorts sums descending, keeping first-seen order on ties, and keeps at
// most n entries. A negative n keeps all of them.
func topN(sums []categorySum, n int) []models.CategoryTotal {
	sort.SliceStable(sums, func(i, j int) bool {
		return sums[i].amount.GreaterThan(sums[j].amount)
	})
	if n >= 0 && len(sums) > n {
		sums = sums[:n]
	}
	out := make([]models.CategoryTotal, 0, len(sums))
	for _, s := range sums {
		out = append(out, models.CategoryTotal{Category: s.category, Amount: round(s.amount)})
	}
	return out
}

type recurringKey struct {
	description string
	category    models.Category
}

// recurring reports expense (description, category) pairs seen more than
// recurringThreshold times, most frequent first.
func recurring(rows []models.CanonicalTransaction) []models.RecurringPayment {
	index := make(map[recurringKey]int)
	var groups []models.RecurringPayment
	for _, tx := range rows {
		if !IsExpense(tx.Type) {
			continue
		}
		k := recurringKey{description: tx.Description, category: tx.Category}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, models.RecurringPayment{Description: tx.Description, Category: tx.Category})
		}
		groups[i].Count++
	}

	out := make([]models.RecurringPayment, 0)
	for _, g := range groups {
		if g.Count > recurringThreshold {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
