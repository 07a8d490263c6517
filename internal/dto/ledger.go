package dto

import "github.com/GregMSThompson/ledger-backend/internal/models"

type CurrencyRequest struct {
	Code         string  `json:"code"`
	Description  string  `json:"description"`
	ExchangeRate float64 `json:"exchangeRate"`
}

type CreateCardRequest struct {
	BankName      string  `json:"bankName"`
	Type          string  `json:"type"`
	BranchName    string  `json:"branchName"`
	AccountNumber string  `json:"accountNumber"`
	Balance       float64 `json:"balance"`
	CurrencyID    string  `json:"currencyId"`
	IsActive      *bool   `json:"isActive"`
}

// UpdateCardRequest has no balance: balances only move through postings.
type UpdateCardRequest struct {
	BankName      *string `json:"bankName"`
	Type          *string `json:"type"`
	BranchName    *string `json:"branchName"`
	AccountNumber *string `json:"accountNumber"`
	CurrencyID    *string `json:"currencyId"`
	IsActive      *bool   `json:"isActive"`
}

type TransferRequest struct {
	FromAccountNumber string  `json:"fromAccount"`
	ToAccountNumber   string  `json:"toAccount"`
	Amount            float64 `json:"amount"`
}

type TransferResult struct {
	From   *models.Card        `json:"from"`
	To     *models.Card        `json:"to"`
	Debit  *models.Transaction `json:"debit"`
	Credit *models.Transaction `json:"credit"`
}
