package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/ledger"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

var errReadAfterWrite = errors.New("read after write")

// fakeLedger keeps committed state in memory. Writes made inside RunInTx are
// buffered and only applied when fn succeeds.
type fakeLedger struct {
	cards        map[string]models.Card
	currencies   map[string]models.Currency
	transactions map[string]models.Transaction
	bills        map[string]models.Bill
	expenses     map[string]models.Expense
	commits      int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		cards:        map[string]models.Card{},
		currencies:   map[string]models.Currency{},
		transactions: map[string]models.Transaction{},
		bills:        map[string]models.Bill{},
		expenses:     map[string]models.Expense{},
	}
}

func scopedKey(uid, id string) string { return uid + "/" + id }

func (l *fakeLedger) addCurrency(id, code string, rate float64) {
	l.currencies[id] = models.Currency{CurrencyID: id, Code: code, ExchangeRate: rate}
}

func (l *fakeLedger) addCard(id, owner, number, currencyID string, balance float64) {
	l.cards[id] = models.Card{
		CardID:        id,
		OwnerID:       owner,
		AccountNumber: number,
		CurrencyID:    currencyID,
		Balance:       balance,
		IsActive:      true,
	}
}

func (l *fakeLedger) balance(id string) float64 { return l.cards[id].Balance }

func (l *fakeLedger) RunInTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	tx := &fakeTx{l: l}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if tx.err != nil {
		return tx.err
	}
	for _, w := range tx.writes {
		w()
	}
	l.commits++
	return nil
}

type fakeTx struct {
	l      *fakeLedger
	writes []func()
	err    error
}

func (t *fakeTx) read() error {
	if len(t.writes) > 0 {
		t.err = errReadAfterWrite
		return t.err
	}
	return nil
}

func (t *fakeTx) Card(id string) (*models.Card, error) {
	if err := t.read(); err != nil {
		return nil, err
	}
	c, ok := t.l.cards[id]
	if !ok || c.Deleted() {
		return nil, errs.NewNotFoundError("account not found")
	}
	return &c, nil
}

func (t *fakeTx) CardByNumber(uid, accountNumber string) (*models.Card, error) {
	if err := t.read(); err != nil {
		return nil, err
	}
	for _, c := range t.l.cards {
		if c.OwnerID == uid && c.AccountNumber == accountNumber && !c.Deleted() {
			return &c, nil
		}
	}
	return nil, errs.NewNotFoundError("account not found")
}

func (t *fakeTx) Currency(id string) (*models.Currency, error) {
	if err := t.read(); err != nil {
		return nil, err
	}
	c, ok := t.l.currencies[id]
	if !ok {
		return nil, errs.NewNotFoundError("currency not found")
	}
	return &c, nil
}

func (t *fakeTx) Transaction(id string) (*models.Transaction, error) {
	if err := t.read(); err != nil {
		return nil, err
	}
	tr, ok := t.l.transactions[id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	return &tr, nil
}

func (t *fakeTx) Bill(uid, id string) (*models.Bill, error) {
	if err := t.read(); err != nil {
		return nil, err
	}
	b, ok := t.l.bills[scopedKey(uid, id)]
	if !ok {
		return nil, errs.NewNotFoundError("bill not found")
	}
	return &b, nil
}

func (t *fakeTx) LinkedExpense(uid, txID string) (*models.Expense, error) {
	if err := t.read(); err != nil {
		return nil, err
	}
	for _, e := range t.l.expenses {
		if e.UserID == uid && e.TransactionID == txID {
			return &e, nil
		}
	}
	return nil, nil
}

func (t *fakeTx) PutCard(card *models.Card) error {
	c := *card
	t.writes = append(t.writes, func() { t.l.cards[c.CardID] = c })
	return nil
}

func (t *fakeTx) PutTransaction(tr *models.Transaction) error {
	v := *tr
	t.writes = append(t.writes, func() { t.l.transactions[v.TransactionID] = v })
	return nil
}

func (t *fakeTx) DeleteTransaction(id string) error {
	t.writes = append(t.writes, func() { delete(t.l.transactions, id) })
	return nil
}

func (t *fakeTx) PutBill(uid string, b *models.Bill) error {
	v := *b
	t.writes = append(t.writes, func() { t.l.bills[scopedKey(uid, v.BillID)] = v })
	return nil
}

func (t *fakeTx) DeleteBill(uid, id string) error {
	t.writes = append(t.writes, func() { delete(t.l.bills, scopedKey(uid, id)) })
	return nil
}

func (t *fakeTx) PutExpense(uid string, e *models.Expense) error {
	v := *e
	v.UserID = uid
	t.writes = append(t.writes, func() { t.l.expenses[scopedKey(uid, v.ExpenseID)] = v })
	return nil
}

func (t *fakeTx) DeleteExpense(uid, id string) error {
	t.writes = append(t.writes, func() { delete(t.l.expenses, scopedKey(uid, id)) })
	return nil
}

// fakeBillStore reads bills straight out of a fakeLedger.
type fakeBillStore struct {
	l       *fakeLedger
	eachErr error
}

func (s *fakeBillStore) Get(_ context.Context, uid, id string) (*models.Bill, error) {
	b, ok := s.l.bills[scopedKey(uid, id)]
	if !ok {
		return nil, errs.NewNotFoundError("bill not found")
	}
	return &b, nil
}

func (s *fakeBillStore) List(_ context.Context, uid string) ([]*models.Bill, error) {
	var out []*models.Bill
	for _, b := range s.l.bills {
		if b.UserID == uid {
			v := b
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (s *fakeBillStore) EachDue(_ context.Context, cutoff time.Time, fn func(*models.Bill) error) error {
	if s.eachErr != nil {
		return s.eachErr
	}
	var due []*models.Bill
	for _, b := range s.l.bills {
		if b.IsActive && !b.DueDate.After(cutoff) {
			v := b
			due = append(due, &v)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].DueDate.Before(due[j].DueDate) })
	for _, b := range due {
		if err := fn(b); err != nil {
			return err
		}
	}
	return nil
}

// fakeCurrencies serves List from a fakeLedger.
type fakeCurrencies struct{ l *fakeLedger }

func (f fakeCurrencies) List(_ context.Context) ([]*models.Currency, error) {
	out := make([]*models.Currency, 0, len(f.l.currencies))
	for _, c := range f.l.currencies {
		v := c
		out = append(out, &v)
	}
	return out, nil
}

func (f fakeCurrencies) Lookup(_ context.Context, id string) (*models.Currency, error) {
	c, ok := f.l.currencies[id]
	if !ok {
		return nil, errs.NewNotFoundError("currency not found")
	}
	return &c, nil
}

// fakeAccounts serves card reads from a fakeLedger with the owner check.
type fakeAccounts struct{ l *fakeLedger }

func (f fakeAccounts) Get(_ context.Context, uid, id string) (*models.Card, error) {
	c, ok := f.l.cards[id]
	if !ok || c.OwnerID != uid || c.Deleted() {
		return nil, errs.NewNotFoundError("account not found")
	}
	return &c, nil
}

// fakeTransactions filters the ledger's transactions like the Firestore store.
type fakeTransactions struct{ l *fakeLedger }

func (f fakeTransactions) List(_ context.Context, uid string, filter dto.TransactionFilter) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, t := range f.l.transactions {
		if t.UserID != uid {
			continue
		}
		if filter.AccountID != "" && t.AccountID != filter.AccountID {
			continue
		}
		if filter.Kind != "" && t.Kind != filter.Kind {
			continue
		}
		v := t
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f fakeTransactions) InRange(_ context.Context, uid string, from, to time.Time, fn func(*models.Transaction) error) error {
	var out []*models.Transaction
	for _, t := range f.l.transactions {
		if t.UserID == uid && !t.Date.Before(from) && t.Date.Before(to) {
			v := t
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	for _, t := range out {
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
