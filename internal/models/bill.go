package models

import "time"

const (
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

type Bill struct {
	BillID        string     `firestore:"billId" json:"id"`
	UserID        string     `firestore:"userId" json:"userId"`
	Name          string     `firestore:"name" json:"name"`
	Description   string     `firestore:"description,omitempty" json:"description,omitempty"`
	Amount        float64    `firestore:"amount" json:"amount"`
	DueDate       time.Time  `firestore:"dueDate" json:"dueDate"`
	AnchorDay     int        `firestore:"anchorDay" json:"-"`
	LastCharge    *time.Time `firestore:"lastCharge" json:"lastCharge,omitempty"`
	CurrencyID    string     `firestore:"currencyId" json:"currencyId"`
	CreatedPaid   bool       `firestore:"createdPaid" json:"-"`
	IsActive      bool       `firestore:"isActive" json:"isActive"`
	Frequency     string     `firestore:"frequency" json:"frequency"`
	TransactionID string     `firestore:"transactionId,omitempty" json:"transactionId,omitempty"`
	IsPaid        bool       `firestore:"-" json:"isPaid"` // derived, see ledger.BillPaid
	CreatedAt     time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `firestore:"updatedAt" json:"updatedAt"`
}
