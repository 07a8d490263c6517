package models

import (
	"time"
)

const (
	KindIncome  = "income"
	KindExpense = "expense"

	StatusPending = "pending"
	StatusPaid    = "paid"
)

type Transaction struct {
	TransactionID string    `firestore:"transactionId" json:"id"`
	UserID        string    `firestore:"userId" json:"userId"`
	AccountID     string    `firestore:"accountId" json:"bankId,omitempty"` // empty for unpaid bill placeholders
	BillID        string    `firestore:"billId,omitempty" json:"billId,omitempty"`
	Item          string    `firestore:"item" json:"item"`
	Counterparty  string    `firestore:"counterparty" json:"shopName"`
	Date          time.Time `firestore:"date" json:"date"`
	Kind          string    `firestore:"kind" json:"transactionType"`
	Amount        float64   `firestore:"amount" json:"amount"`
	LedgerAmount  float64   `firestore:"ledgerAmount" json:"-"` // impact on the account balance, in account currency
	CurrencyID    string    `firestore:"currencyId" json:"currencyId"`
	PaymentMethod string    `firestore:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	Receipt       string    `firestore:"receipt,omitempty" json:"receipt,omitempty"`
	IsActive      bool      `firestore:"isActive" json:"isActive"`
	Status        string    `firestore:"status" json:"status"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Posted reports whether the transaction has moved money on an account.
func (t *Transaction) Posted() bool {
	return t.AccountID != ""
}
