package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/ledger"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/pkg/helpers"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

type transactionStore interface {
	List(ctx context.Context, uid string, filter dto.TransactionFilter) ([]*models.Transaction, error)
	InRange(ctx context.Context, uid string, from, to time.Time, fn func(*models.Transaction) error) error
}

type accountGetter interface {
	Get(ctx context.Context, uid, id string) (*models.Card, error)
}

type currencyLister interface {
	List(ctx context.Context) ([]*models.Currency, error)
}

type transactionService struct {
	ledger     ledgerStore
	store      transactionStore
	accounts   accountGetter
	currencies currencyLister
	clockNow   func() time.Time
}

func NewTransactionService(ls ledgerStore, store transactionStore, accounts accountGetter, currencies currencyLister) *transactionService {
	return &transactionService{
		ledger:     ls,
		store:      store,
		accounts:   accounts,
		currencies: currencies,
		clockNow:   time.Now,
	}
}

// Post records a settled transaction and moves the account balance by the
// amount converted into the account's currency.
func (s *transactionService) Post(ctx context.Context, uid string, req dto.PostTransactionRequest) (*dto.TransactionView, error) {
	if !ledger.ValidKind(req.Kind) {
		return nil, errs.NewValidationError("transactionType must be income or expense")
	}
	if req.Amount <= 0 {
		return nil, errs.NewValidationError("amount must be positive")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	t := &models.Transaction{
		TransactionID: uuid.New().String(),
		UserID:        uid,
		AccountID:     req.AccountID,
		Item:          req.Item,
		Counterparty:  req.Counterparty,
		Date:          date,
		Kind:          req.Kind,
		Amount:        req.Amount,
		CurrencyID:    req.CurrencyID,
		PaymentMethod: req.PaymentMethod,
		Receipt:       ledger.NewReceipt(ledger.ReceiptPrefix),
		IsActive:      helpers.ValueOr(req.IsActive, true),
		Status:        models.StatusPaid,
	}

	var currency *models.Currency
	err = s.ledger.RunInTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		card, err := ownedCard(tx, uid, req.AccountID)
		if err != nil {
			return err
		}
		currency, err = tx.Currency(req.CurrencyID)
		if err != nil {
			return asInvalidReference(err, "invalid currencyId")
		}
		accountCurrency, err := tx.Currency(card.CurrencyID)
		if err != nil {
			return asInvalidReference(err, "account currency not found")
		}

		t.LedgerAmount = ledger.Convert(t.Amount, currency, accountCurrency)
		if err := ledger.Apply(card, t.Kind, t.LedgerAmount); err != nil {
			return err
		}
		if err := tx.PutTransaction(t); err != nil {
			return err
		}
		return tx.PutCard(card)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("transaction posted", "transaction_id", t.TransactionID, "kind", t.Kind)
	return &dto.TransactionView{Transaction: t, Currency: currency}, nil
}

// Amend reverses the stored balance impact with the old kind, applies the
// changes and re-applies the new impact with the new kind. A linked expense
// is only kept in sync while the transaction remains an expense.
func (s *transactionService) Amend(ctx context.Context, uid, id string, req dto.AmendTransactionRequest) (*dto.TransactionView, error) {
	var date *time.Time
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		date = &d
	}
	if req.Kind != nil && !ledger.ValidKind(*req.Kind) {
		return nil, errs.NewValidationError("transactionType must be income or expense")
	}
	if req.Amount != nil && *req.Amount <= 0 {
		return nil, errs.NewValidationError("amount must be positive")
	}

	var (
		out      *models.Transaction
		currency *models.Currency
	)
	err := s.ledger.RunInTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		t, err := ownedTransaction(tx, uid, id)
		if err != nil {
			return err
		}
		oldKind, oldImpact := t.Kind, t.LedgerAmount
		// The stored impact keeps the rate used at posting time; it is only
		// re-derived when the amount or currency actually change.
		reprice := (req.Amount != nil && *req.Amount != t.Amount) ||
			(req.CurrencyID != nil && *req.CurrencyID != t.CurrencyID)

		t.Item = helpers.ValueOr(req.Item, t.Item)
		t.Counterparty = helpers.ValueOr(req.Counterparty, t.Counterparty)
		t.Kind = helpers.ValueOr(req.Kind, t.Kind)
		t.Amount = helpers.ValueOr(req.Amount, t.Amount)
		t.CurrencyID = helpers.ValueOr(req.CurrencyID, t.CurrencyID)
		t.PaymentMethod = helpers.ValueOr(req.PaymentMethod, t.PaymentMethod)
		t.IsActive = helpers.ValueOr(req.IsActive, t.IsActive)
		if date != nil {
			t.Date = *date
		}

		currency, err = tx.Currency(t.CurrencyID)
		if err != nil {
			return asInvalidReference(err, "invalid currencyId")
		}

		var card *models.Card
		var accountCurrency *models.Currency
		if t.Posted() {
			card, err = ownedCard(tx, uid, t.AccountID)
			if err != nil {
				return err
			}
			accountCurrency, err = tx.Currency(card.CurrencyID)
			if err != nil {
				return asInvalidReference(err, "account currency not found")
			}
		}
		expense, err := tx.LinkedExpense(uid, t.TransactionID)
		if err != nil {
			return err
		}

		if card != nil {
			if err := ledger.Reverse(card, oldKind, oldImpact); err != nil {
				return err
			}
			if reprice {
				t.LedgerAmount = ledger.Convert(t.Amount, currency, accountCurrency)
			}
			if err := ledger.Apply(card, t.Kind, t.LedgerAmount); err != nil {
				return err
			}
			if err := tx.PutCard(card); err != nil {
				return err
			}
		}
		if expense != nil && t.Kind == models.KindExpense {
			expense.Category = t.Item
			expense.Amount = t.Amount
			expense.CurrencyID = t.CurrencyID
			expense.Description = fmt.Sprintf("%s - %s", t.Counterparty, t.Item)
			expense.Date = t.Date
			if err := tx.PutExpense(uid, expense); err != nil {
				return err
			}
		}
		out = t
		return tx.PutTransaction(t)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("transaction amended", "transaction_id", id)
	return &dto.TransactionView{Transaction: out, Currency: currency}, nil
}

// Delete reverses the balance impact and removes the transaction together
// with any expense linked to it.
func (s *transactionService) Delete(ctx context.Context, uid, id string) error {
	log := logger.FromContext(ctx)
	err := s.ledger.RunInTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		t, err := ownedTransaction(tx, uid, id)
		if err != nil {
			return err
		}
		var card *models.Card
		if t.Posted() {
			card, err = tx.Card(t.AccountID)
			switch {
			case isNotFound(err):
				// the account was removed; its balance is no longer tracked
				log.Warn("deleting transaction of a removed account", "transaction_id", id, "account_id", t.AccountID)
			case err != nil:
				return err
			}
		}
		expense, err := tx.LinkedExpense(uid, t.TransactionID)
		if err != nil {
			return err
		}

		if card != nil {
			if err := ledger.Reverse(card, t.Kind, t.LedgerAmount); err != nil {
				return err
			}
			if err := tx.PutCard(card); err != nil {
				return err
			}
		}
		if expense != nil {
			if err := tx.DeleteExpense(uid, expense.ExpenseID); err != nil {
				return err
			}
		}
		return tx.DeleteTransaction(t.TransactionID)
	})
	if err != nil {
		return err
	}
	log.Info("transaction deleted", "transaction_id", id)
	return nil
}

// List returns the user's transactions newest first with currencies populated.
func (s *transactionService) List(ctx context.Context, uid string, filter dto.TransactionFilter) ([]*dto.TransactionView, error) {
	if filter.Kind != "" && !ledger.ValidKind(filter.Kind) {
		return nil, errs.NewValidationError("transactionType must be income or expense")
	}
	txs, err := s.store.List(ctx, uid, filter)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, txs)
}

func (s *transactionService) ListByAccount(ctx context.Context, uid, accountID string) ([]*dto.TransactionView, error) {
	if _, err := s.accounts.Get(ctx, uid, accountID); err != nil {
		return nil, asInvalidReference(err, "invalid bankId")
	}
	return s.List(ctx, uid, dto.TransactionFilter{AccountID: accountID})
}

// Summary totals income and expense for the current and previous month.
func (s *transactionService) Summary(ctx context.Context, uid string) (*dto.MonthlySummary, error) {
	now := s.clockNow()
	thisStart := monthStart(now)
	lastStart := thisStart.AddDate(0, -1, 0)
	nextStart := thisStart.AddDate(0, 1, 0)

	var this, last totals
	err := s.store.InRange(ctx, uid, lastStart, nextStart, func(t *models.Transaction) error {
		if t.Date.Before(thisStart) {
			last.add(t)
		} else {
			this.add(t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.MonthlySummary{CurrentMonth: this.view(), LastMonth: last.view()}, nil
}

// DailySummary totals active transactions per day of the current month.
func (s *transactionService) DailySummary(ctx context.Context, uid string) ([]dto.DailyTotals, error) {
	now := s.clockNow()
	start := monthStart(now)

	var days []string
	byDay := make(map[string]*totals)
	err := s.store.InRange(ctx, uid, start, start.AddDate(0, 1, 0), func(t *models.Transaction) error {
		if !t.IsActive {
			return nil
		}
		key := t.Date.In(now.Location()).Format(dateLayout)
		if _, ok := byDay[key]; !ok {
			byDay[key] = &totals{}
			days = append(days, key)
		}
		byDay[key].add(t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.DailyTotals, 0, len(days))
	for _, d := range days {
		out = append(out, dto.DailyTotals{Date: d, Totals: byDay[d].view()})
	}
	return out, nil
}

func (s *transactionService) populate(ctx context.Context, txs []*models.Transaction) ([]*dto.TransactionView, error) {
	list, err := s.currencies.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Currency, len(list))
	for _, c := range list {
		byID[c.CurrencyID] = c
	}
	out := make([]*dto.TransactionView, 0, len(txs))
	for _, t := range txs {
		out = append(out, &dto.TransactionView{Transaction: t, Currency: byID[t.CurrencyID]})
	}
	return out, nil
}

// ownedCard loads an account the user may post against.
func ownedCard(tx ledger.Tx, uid, id string) (*models.Card, error) {
	if id == "" {
		return nil, errs.NewInvalidReferenceError("bankId is required")
	}
	card, err := tx.Card(id)
	if err != nil {
		return nil, asInvalidReference(err, "invalid bankId")
	}
	if card.OwnerID != uid {
		return nil, errs.NewInvalidReferenceError("invalid bankId")
	}
	return card, nil
}

func ownedTransaction(tx ledger.Tx, uid, id string) (*models.Transaction, error) {
	t, err := tx.Transaction(id)
	if err != nil {
		return nil, err
	}
	if t.UserID != uid {
		return nil, errs.NewForbiddenError("transaction belongs to another user")
	}
	return t, nil
}

// totals sums amounts in transaction currency, as stored.
type totals struct {
	income  decimal.Decimal
	expense decimal.Decimal
}

func (t *totals) add(tr *models.Transaction) {
	switch tr.Kind {
	case models.KindIncome:
		t.income = t.income.Add(decimal.NewFromFloat(tr.Amount))
	case models.KindExpense:
		t.expense = t.expense.Add(decimal.NewFromFloat(tr.Amount))
	}
}

func (t *totals) view() dto.Totals {
	return dto.Totals{
		Income:  t.income.InexactFloat64(),
		Expense: t.expense.InexactFloat64(),
	}
}
