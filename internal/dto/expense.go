package dto

import "time"

type CreateExpenseRequest struct {
	Category      string  `json:"category"`
	Subcategory   string  `json:"subcategory"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	CurrencyID    string  `json:"currencyId"`
	Date          string  `json:"date"`
	BankID        string  `json:"bankId"`
	TransactionID string  `json:"transactionId"`
}

// UpdateExpenseRequest leaves nil fields unchanged.
type UpdateExpenseRequest struct {
	Category    *string  `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
	CurrencyID  *string  `json:"currencyId"`
	Date        *string  `json:"date"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SubcategoryEntry struct {
	Name        string    `json:"name"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

type CategoryReport struct {
	Category       string             `json:"category"`
	ThisMonthTotal float64            `json:"thisMonthTotal"`
	LastMonthTotal float64            `json:"lastMonthTotal"`
	PercentChange  int                `json:"percentChange"`
	Subcategories  []SubcategoryEntry `json:"subcategories"`
}

type ExpenseReport struct {
	ThisMonthRange DateRange        `json:"thisMonthRange"`
	LastMonthRange DateRange        `json:"lastMonthRange"`
	Expenses       []CategoryReport `json:"expenses"`
}

type Insight struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type CategorySuggestion struct {
	Category string `json:"category"`
	Source   string `json:"source"` // "keywords" or "model"
}
