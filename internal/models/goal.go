package models

import "time"

type Goal struct {
	GoalID        string    `firestore:"goalId" json:"id"`
	UserID        string    `firestore:"userId" json:"userId"`
	Title         string    `firestore:"title" json:"title"`
	TargetAmount  float64   `firestore:"targetAmount" json:"targetAmount"`
	PresentAmount float64   `firestore:"presentAmount" json:"presentAmount"`
	CurrencyID    string    `firestore:"currencyId" json:"currencyId"`
	Category      string    `firestore:"category,omitempty" json:"category,omitempty"`
	Month         int       `firestore:"month" json:"month"`
	Year          int       `firestore:"year" json:"year"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}
