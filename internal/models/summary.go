package models

// MonthlyTotal holds the income and expense sums for one calendar month.
type MonthlyTotal struct {
	Month   string  `json:"month" csv:"month"` // YYYY-MM
	Income  float64 `json:"income" csv:"income"`
	Expense float64 `json:"expense" csv:"expense"`
}

// CategoryTotal is an expense sum for one category.
type CategoryTotal struct {
	Category Category `json:"category" csv:"category"`
	Amount   float64  `json:"amount" csv:"amount"`
}

// RecurringPayment is a (description, category) pair seen more than twice.
type RecurringPayment struct {
	Description string   `json:"description" csv:"description"`
	Category    Category `json:"category" csv:"category"`
	Count       int      `json:"count" csv:"count"`
}

// BankSummary aggregates the BankAccount rows.
type BankSummary struct {
	TotalIncome       float64            `json:"total_income"`
	TotalExpenses     float64            `json:"total_expenses"`
	TotalSavings      float64            `json:"total_savings"`
	NetCashFlow       float64            `json:"net_cash_flow"`
	MonthlyBreakdown  []MonthlyTotal     `json:"monthly_breakdown"`
	TopCategories     []CategoryTotal    `json:"top_5_spending_categories"`
	RecurringPayments []RecurringPayment `json:"recurring_payments"`
}

// CreditCardSummary aggregates the CreditCard rows.
type CreditCardSummary struct {
	TotalSpendByCategory []CategoryTotal `json:"total_spend_by_category"`
	Payments             float64         `json:"payments"`
	TotalExpenses        float64         `json:"total_expenses"`
	AverageMonthlySpend  float64         `json:"average_monthly_spend"`
	MonthlySpend         []MonthlyTotal  `json:"monthly_spend"`
}

// Summary is the Analyzer output.
type Summary struct {
	Bank       BankSummary       `json:"bank"`
	CreditCard CreditCardSummary `json:"credit_card"`
}
