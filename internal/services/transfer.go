package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/ledger"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

const (
	transferItem   = "Transfer"
	transferMethod = "transfer"
)

type transferService struct {
	ledger   ledgerStore
	clockNow func() time.Time
}

func NewTransferService(ls ledgerStore) *transferService {
	return &transferService{ledger: ls, clockNow: time.Now}
}

// Transfer moves amount from one of the user's accounts to another. Both
// balances and both legs commit together or not at all.
func (s *transferService) Transfer(ctx context.Context, uid string, req dto.TransferRequest) (*dto.TransferResult, error) {
	fromNumber := strings.TrimSpace(req.FromAccountNumber)
	toNumber := strings.TrimSpace(req.ToAccountNumber)
	if req.Amount <= 0 {
		return nil, errs.NewValidationError("amount must be positive")
	}
	if fromNumber == "" || toNumber == "" {
		return nil, errs.NewValidationError("fromAccount and toAccount are required")
	}
	if fromNumber == toNumber {
		return nil, errs.NewValidationError("cannot transfer to the same account")
	}

	now := s.clockNow()
	receipt := ledger.NewReceipt(ledger.TransferPrefix)
	var out *dto.TransferResult

	err := s.ledger.RunInTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		from, err := tx.CardByNumber(uid, fromNumber)
		if err != nil {
			return asInvalidReference(err, "source account not found")
		}
		to, err := tx.CardByNumber(uid, toNumber)
		if err != nil {
			return asInvalidReference(err, "destination account not found")
		}
		if from.Balance < req.Amount {
			return errs.NewInsufficientFundsError(from.AccountNumber, from.Balance, req.Amount)
		}
		fromCurrency, err := tx.Currency(from.CurrencyID)
		if err != nil {
			return asInvalidReference(err, "source account currency not found")
		}
		toCurrency, err := tx.Currency(to.CurrencyID)
		if err != nil {
			return asInvalidReference(err, "destination account currency not found")
		}

		converted := ledger.Convert(req.Amount, fromCurrency, toCurrency)
		ledger.Debit(from, req.Amount)
		ledger.Credit(to, converted)

		debit := transferLeg(uid, from, to.AccountNumber, models.KindExpense, req.Amount, receipt, now)
		credit := transferLeg(uid, to, from.AccountNumber, models.KindIncome, converted, receipt, now)

		for _, c := range []*models.Card{from, to} {
			if err := tx.PutCard(c); err != nil {
				return err
			}
		}
		for _, t := range []*models.Transaction{debit, credit} {
			if err := tx.PutTransaction(t); err != nil {
				return err
			}
		}
		out = &dto.TransferResult{From: from, To: to, Debit: debit, Credit: credit}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("transfer completed",
		"receipt", receipt,
		"from_account", out.From.CardID,
		"to_account", out.To.CardID,
	)
	return out, nil
}

// transferLeg builds one side of a transfer in the account's own currency.
func transferLeg(uid string, card *models.Card, other, kind string, amount float64, receipt string, now time.Time) *models.Transaction {
	label := "Transfer to " + other
	if kind == models.KindIncome {
		label = "Transfer from " + other
	}
	return &models.Transaction{
		TransactionID: uuid.New().String(),
		UserID:        uid,
		AccountID:     card.CardID,
		Item:          transferItem,
		Counterparty:  label,
		Date:          now,
		Kind:          kind,
		Amount:        amount,
		LedgerAmount:  amount,
		CurrencyID:    card.CurrencyID,
		PaymentMethod: transferMethod,
		Receipt:       receipt,
		IsActive:      true,
		Status:        models.StatusPaid,
	}
}
