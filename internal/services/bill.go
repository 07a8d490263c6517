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
	"github.com/GregMSThompson/ledger-backend/pkg/helpers"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

const (
	billPaidLabel   = "Bill Payment"
	billUnpaidLabel = "Bill (Unpaid)"
)

type billStore interface {
	Get(ctx context.Context, uid, id string) (*models.Bill, error)
	List(ctx context.Context, uid string) ([]*models.Bill, error)
	EachDue(ctx context.Context, cutoff time.Time, fn func(*models.Bill) error) error
}

type userGetter interface {
	Get(ctx context.Context, uid string) (*models.User, error)
}

type billNotifier interface {
	BillReminder(ctx context.Context, to, name string, bill *models.Bill, now time.Time) error
}

type billService struct {
	ledger   ledgerStore
	store    billStore
	users    userGetter
	notifier billNotifier
	clockNow func() time.Time
}

func NewBillService(ls ledgerStore, store billStore, users userGetter, notifier billNotifier) *billService {
	return &billService{
		ledger:   ls,
		store:    store,
		users:    users,
		notifier: notifier,
		clockNow: time.Now,
	}
}

// Create stores the bill together with its placeholder transaction.
func (s *billService) Create(ctx context.Context, uid string, req dto.CreateBillRequest) (*models.Bill, error) {
	now := s.clockNow()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.NewValidationError("name is required")
	}
	if req.Amount <= 0 {
		return nil, errs.NewValidationError("amount must be positive")
	}
	if req.Frequency == "" {
		req.Frequency = models.FrequencyMonthly
	}
	if !ledger.ValidFrequency(req.Frequency) {
		return nil, errs.NewValidationError("frequency must be monthly or yearly")
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	bill := &models.Bill{
		BillID:      uuid.New().String(),
		UserID:      uid,
		Name:        name,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     due,
		AnchorDay:   due.Day(),
		CurrencyID:  req.CurrencyID,
		CreatedPaid: req.IsPaid,
		IsActive:    helpers.ValueOr(req.IsActive, true),
		Frequency:   req.Frequency,
	}
	placeholder := &models.Transaction{
		TransactionID: uuid.New().String(),
		UserID:        uid,
		BillID:        bill.BillID,
		Item:          name,
		Kind:          models.KindExpense,
		Amount:        req.Amount,
		CurrencyID:    req.CurrencyID,
		IsActive:      true,
	}
	if req.IsPaid {
		charged := now
		if req.LastCharge != "" {
			if charged, err = parseDate(req.LastCharge); err != nil {
				return nil, err
			}
		}
		bill.LastCharge = &charged
		placeholder.Counterparty = billPaidLabel
		placeholder.Date = charged
		placeholder.Status = models.StatusPaid
		placeholder.Receipt = ledger.NewReceipt(ledger.ReceiptPrefix)
	} else {
		placeholder.Counterparty = billUnpaidLabel
		placeholder.Date = due
		placeholder.Status = models.StatusPending
	}
	bill.TransactionID = placeholder.TransactionID

	err = s.ledger.RunInTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		if _, err := tx.Currency(req.CurrencyID); err != nil {
			return asInvalidReference(err, "invalid currencyId")
		}
		if err := tx.PutTransaction(placeholder); err != nil {
			return err
		}
		return tx.PutBill(uid, bill)
	})
	if err != nil {
		return nil, err
	}

	bill.IsPaid = ledger.BillPaid(bill.LastCharge, bill.DueDate, now)
	logger.FromContext(ctx).Info("bill created", "bill_id", bill.BillID, "paid", req.IsPaid)
	return bill, nil
}

// List returns every bill of the user by ascending due date.
func (s *billService) List(ctx context.Context, uid string) ([]*models.Bill, error) {
	bills, err := s.store.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	now := s.clockNow()
	for _, b := range bills {
		b.IsPaid = ledger.BillPaid(b.LastCharge, b.DueDate, now)
	}
	return bills, nil
}

// ListDueSoon returns active unpaid bills due within the next 24 hours,
// overdue ones included.
func (s *billService) ListDueSoon(ctx context.Context, uid string) ([]*models.Bill, error) {
	bills, err := s.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	now := s.clockNow()
	out := make([]*models.Bill, 0, len(bills))
	for _, b := range bills {
		if ledger.IsDueSoon(b, now) {
			out = append(out, b)
		}
	}
	if logger.IsDebugEnabled(ctx) {
		ids := make([]string, 0, len(out))
		for _, b := range out {
			ids = append(ids, b.BillID)
		}
		logger.FromContext(ctx).Debug("bills due soon", "bill_ids", ids, "total", len(bills))
	}
	return out, nil
}

// Amend updates the bill and keeps a still-pending placeholder in line with it.
func (s *billService) Amend(ctx context.Context, uid, id string, req dto.UpdateBillRequest) (*models.Bill, error) {
	var due *time.Time
	if req.DueDate != nil {
		d, err := parseDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		due = &d
	}
	if req.Amount != nil && *req.Amount <= 0 {
		return nil, errs.NewValidationError("amount must be positive")
	}
	if req.Frequency != nil && !ledger.ValidFrequency(*req.Frequency) {
		return nil, errs.NewValidationError("frequency must be monthly or yearly")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, errs.NewValidationError("name cannot be empty")
	}

	var out *models.Bill
	err := s.ledger.RunInTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		bill, err := tx.Bill(uid, id)
		if err != nil {
			return err
		}
		if req.CurrencyID != nil && *req.CurrencyID != bill.CurrencyID {
			if _, err := tx.Currency(*req.CurrencyID); err != nil {
				return asInvalidReference(err, "invalid currencyId")
			}
		}
		placeholder, err := linkedPlaceholder(tx, bill)
		if err != nil {
			return err
		}

		if req.Name != nil {
			bill.Name = strings.TrimSpace(*req.Name)
		}
		bill.Description = helpers.ValueOr(req.Description, bill.Description)
		bill.Amount = helpers.ValueOr(req.Amount, bill.Amount)
		bill.CurrencyID = helpers.ValueOr(req.CurrencyID, bill.CurrencyID)
		bill.IsActive = helpers.ValueOr(req.IsActive, bill.IsActive)
		bill.Frequency = helpers.ValueOr(req.Frequency, bill.Frequency)
		if due != nil {
			bill.DueDate = *due
			bill.AnchorDay = due.Day()
		}

		if placeholder != nil && placeholder.Status == models.StatusPending {
			placeholder.Item = bill.Name
			placeholder.Amount = bill.Amount
			placeholder.CurrencyID = bill.CurrencyID
			placeholder.Date = bill.DueDate
			if err := tx.PutTransaction(placeholder); err != nil {
				return err
			}
		}
		out = bill
		return tx.PutBill(uid, bill)
	})
	if err != nil {
		return nil, err
	}
	out.IsPaid = ledger.BillPaid(out.LastCharge, out.DueDate, s.clockNow())
	return out, nil
}

// Delete removes the bill and its placeholder if that was never settled.
func (s *billService) Delete(ctx context.Context, uid, id string) error {
	err := s.ledger.RunInTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		bill, err := tx.Bill(uid, id)
		if err != nil {
			return err
		}
		placeholder, err := linkedPlaceholder(tx, bill)
		if err != nil {
			return err
		}
		if placeholder != nil && placeholder.Status == models.StatusPending {
			if err := tx.DeleteTransaction(placeholder.TransactionID); err != nil {
				return err
			}
		}
		return tx.DeleteBill(uid, id)
	})
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("bill deleted", "bill_id", id)
	return nil
}

// Pay charges the bill to an account, advances the due date by one period
// from its previous value and settles the linked transaction.
func (s *billService) Pay(ctx context.Context, uid, id string, req dto.PayBillRequest) (*dto.PayBillResult, error) {
	now := s.clockNow()
	var out *dto.PayBillResult

	err := s.ledger.RunInTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		bill, err := tx.Bill(uid, id)
		if err != nil {
			return err
		}
		card, err := ownedCard(tx, uid, req.AccountID)
		if err != nil {
			return err
		}
		billCurrency, err := tx.Currency(bill.CurrencyID)
		if err != nil {
			return asInvalidReference(err, "bill currency not found")
		}
		accountCurrency, err := tx.Currency(card.CurrencyID)
		if err != nil {
			return asInvalidReference(err, "account currency not found")
		}
		placeholder, err := linkedPlaceholder(tx, bill)
		if err != nil {
			return err
		}
		if !bill.IsActive {
			return errs.NewValidationError("bill is not active")
		}

		next, err := ledger.AdvanceDueDate(bill.DueDate, bill.Frequency, bill.AnchorDay)
		if err != nil {
			return err
		}
		bill.LastCharge = &now
		bill.DueDate = next

		impact := ledger.Convert(bill.Amount, billCurrency, accountCurrency)
		ledger.Debit(card, impact)

		settled := placeholder
		if settled == nil || settled.Status != models.StatusPending {
			settled = &models.Transaction{
				TransactionID: uuid.New().String(),
				UserID:        uid,
				BillID:        bill.BillID,
				Kind:          models.KindExpense,
				IsActive:      true,
			}
		}
		settled.AccountID = card.CardID
		settled.Item = bill.Name
		settled.Counterparty = billPaidLabel
		settled.Date = now
		settled.Amount = bill.Amount
		settled.LedgerAmount = impact
		settled.CurrencyID = bill.CurrencyID
		settled.PaymentMethod = req.PaymentMethod
		settled.Receipt = ledger.NewReceipt(ledger.ReceiptPrefix)
		settled.Status = models.StatusPaid
		bill.TransactionID = settled.TransactionID

		if err := tx.PutCard(card); err != nil {
			return err
		}
		if err := tx.PutTransaction(settled); err != nil {
			return err
		}
		if err := tx.PutBill(uid, bill); err != nil {
			return err
		}
		out = &dto.PayBillResult{Bill: bill, Transaction: settled}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out.Bill.IsPaid = ledger.BillPaid(out.Bill.LastCharge, out.Bill.DueDate, now)
	logger.FromContext(ctx).Info("bill paid",
		"bill_id", id,
		"account_id", out.Transaction.AccountID,
		"next_due", out.Bill.DueDate.Format(dateLayout),
	)
	return out, nil
}

// RunDueBillSweep sends one reminder per unpaid bill due within the next 24
// hours across all users. Delivery failures are counted and logged; they
// never stop the sweep.
func (s *billService) RunDueBillSweep(ctx context.Context, now time.Time) (dto.SweepResult, error) {
	log := logger.FromContext(ctx)
	var res dto.SweepResult
	users := make(map[string]*models.User)

	err := s.store.EachDue(ctx, now.Add(ledger.DueSoonHorizon), func(b *models.Bill) error {
		if !ledger.IsDueSoon(b, now) {
			return nil
		}
		res.Checked++
		blog := log.With("bill_id", b.BillID, "uid", b.UserID)

		user, ok := users[b.UserID]
		if !ok {
			u, err := s.users.Get(ctx, b.UserID)
			if err != nil {
				blog.Error("bill reminder skipped, user lookup failed", "error", err)
				res.Failed++
				return nil
			}
			user = u
			users[b.UserID] = u
		}
		if !user.IsActive {
			blog.Info("bill reminder skipped, user deactivated")
			return nil
		}

		if err := s.notifier.BillReminder(ctx, user.Email, user.Name, b, now); err != nil {
			blog.Error("bill reminder failed", "error", err)
			res.Failed++
			return nil
		}
		res.Sent++
		return nil
	})
	if err != nil {
		return res, err
	}

	log.Info("bill reminder sweep finished", "checked", res.Checked, "sent", res.Sent, "failed", res.Failed)
	return res, nil
}

// linkedPlaceholder returns the transaction the bill points at, or nil when
// there is none any more.
func linkedPlaceholder(tx ledger.Tx, bill *models.Bill) (*models.Transaction, error) {
	if bill.TransactionID == "" {
		return nil, nil
	}
	t, err := tx.Transaction(bill.TransactionID)
	if isNotFound(err) {
		return nil, nil
	}
	return t, err
}
