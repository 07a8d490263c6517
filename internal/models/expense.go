package models

import "time"

type Expense struct {
	ExpenseID     string    `firestore:"expenseId" json:"id"`
	UserID        string    `firestore:"userId" json:"userId"`
	Category      string    `firestore:"category" json:"category"`
	Subcategory   string    `firestore:"subcategory,omitempty" json:"subcategory,omitempty"`
	Amount        float64   `firestore:"amount" json:"amount"`
	Description   string    `firestore:"description,omitempty" json:"description,omitempty"`
	CurrencyID    string    `firestore:"currencyId" json:"currencyId"`
	Date          time.Time `firestore:"date" json:"date"`
	TransactionID string    `firestore:"transactionId,omitempty" json:"transactionId,omitempty"`
	BankID        string    `firestore:"bankId,omitempty" json:"bankId,omitempty"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}
