package models

import (
	"time"
)

type User struct {
	UID          string    `firestore:"uid" json:"id"`
	Name         string    `firestore:"name" json:"name"`
	Email        string    `firestore:"email" json:"email"`
	Username     string    `firestore:"username,omitempty" json:"username,omitempty"`
	PhoneNumber  string    `firestore:"-" json:"phoneNumber,omitempty"`
	PhoneCipher  string    `firestore:"phoneNumberEnc,omitempty" json:"-"` // KMS ciphertext of PhoneNumber
	Image        string    `firestore:"image,omitempty" json:"image,omitempty"`
	PasswordHash string    `firestore:"passwordHash" json:"-"`
	IsActive     bool      `firestore:"isActive" json:"isActive"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}
