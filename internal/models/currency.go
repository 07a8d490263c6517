package models

import "time"

// Currency rates are relative to an implicit common base; only ratios are meaningful.
type Currency struct {
	CurrencyID   string    `firestore:"currencyId" json:"id"`
	Code         string    `firestore:"code" json:"code"`
	Description  string    `firestore:"description" json:"description"`
	ExchangeRate float64   `firestore:"exchangeRate" json:"exchangeRate"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}
