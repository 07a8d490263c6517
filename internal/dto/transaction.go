package dto

import "github.com/GregMSThompson/ledger-backend/internal/models"

type TransactionFilter struct {
	AccountID string
	Kind      string
}

type PostTransactionRequest struct {
	AccountID     string  `json:"bankId"`
	Item          string  `json:"item"`
	Counterparty  string  `json:"shopName"`
	Date          string  `json:"date"`
	Kind          string  `json:"transactionType"`
	Amount        float64 `json:"amount"`
	CurrencyID    string  `json:"currencyId"`
	PaymentMethod string  `json:"paymentMethod"`
	IsActive      *bool   `json:"isActive"`
}

// AmendTransactionRequest leaves nil fields unchanged.
type AmendTransactionRequest struct {
	Item          *string  `json:"item"`
	Counterparty  *string  `json:"shopName"`
	Date          *string  `json:"date"`
	Kind          *string  `json:"transactionType"`
	Amount        *float64 `json:"amount"`
	CurrencyID    *string  `json:"currencyId"`
	PaymentMethod *string  `json:"paymentMethod"`
	IsActive      *bool    `json:"isActive"`
}

// TransactionView is a transaction with its currency populated.
type TransactionView struct {
	*models.Transaction
	Currency *models.Currency `json:"currency,omitempty"`
}

type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type MonthlySummary struct {
	CurrentMonth Totals `json:"currentMonth"`
	LastMonth    Totals `json:"lastMonth"`
}

type DailyTotals struct {
	Date string `json:"date"`
	Totals
}
