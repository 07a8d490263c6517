package models

import (
	"time"
)

// Card is a user's bank account. Balance is denominated in CurrencyID.
type Card struct {
	CardID        string     `firestore:"cardId" json:"id"`
	OwnerID       string     `firestore:"ownerId" json:"ownerId"`
	BankName      string     `firestore:"bankName" json:"bankName"`
	Type          string     `firestore:"type" json:"type"`
	BranchName    string     `firestore:"branchName" json:"branchName"`
	AccountNumber string     `firestore:"accountNumber" json:"accountNumber"`
	Balance       float64    `firestore:"balance" json:"balance"`
	CurrencyID    string     `firestore:"currencyId" json:"currencyId"`
	IsActive      bool       `firestore:"isActive" json:"isActive"`
	DeletedAt     *time.Time `firestore:"deletedAt" json:"-"`
	CreatedAt     time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `firestore:"updatedAt" json:"updatedAt"`
}

func (c *Card) Deleted() bool {
	return c.DeletedAt != nil
}
