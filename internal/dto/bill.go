package dto

import "github.com/GregMSThompson/ledger-backend/internal/models"

type CreateBillRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"dueDate"`
	LastCharge  string  `json:"lastCharge"`
	CurrencyID  string  `json:"currencyId"`
	IsPaid      bool    `json:"isPaid"`
	IsActive    *bool   `json:"isActive"`
	Frequency   string  `json:"frequency"`
}

// UpdateBillRequest leaves nil fields unchanged.
type UpdateBillRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	DueDate     *string  `json:"dueDate"`
	CurrencyID  *string  `json:"currencyId"`
	IsActive    *bool    `json:"isActive"`
	Frequency   *string  `json:"frequency"`
}

type PayBillRequest struct {
	AccountID     string `json:"bankId"`
	PaymentMethod string `json:"paymentMethod"`
}

type PayBillResult struct {
	Bill        *models.Bill        `json:"bill"`
	Transaction *models.Transaction `json:"transaction"`
}

type SweepResult struct {
	Checked int `json:"checked"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}
