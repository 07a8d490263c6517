package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/ledger"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

type ledgerStore struct {
	client *firestore.Client
}

func NewLedgerStore(client *firestore.Client) *ledgerStore {
	return &ledgerStore{client: client}
}

// RunInTx runs fn inside a Firestore transaction. Firestore retries fn on
// contention, so fn must not have side effects outside tx.
func (s *ledgerStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{client: s.client, tx: t, now: time.Now()})
	})
	return txErr(err, "commit ledger transaction")
}

type firestoreTx struct {
	client *firestore.Client
	tx     *firestore.Transaction
	now    time.Time
}

func (t *firestoreTx) Card(id string) (*models.Card, error) {
	snap, err := t.tx.Get(t.client.Collection(cardsCollection).Doc(id))
	if err != nil {
		return nil, readErr(err, "account")
	}
	card, err := decode[models.Card](snap, "account")
	if err != nil {
		return nil, err
	}
	if card.Deleted() {
		return nil, errs.NewNotFoundError("account not found")
	}
	return card, nil
}

func (t *firestoreTx) CardByNumber(uid, accountNumber string) (*models.Card, error) {
	q := t.client.Collection(cardsCollection).
		Where("ownerId", "==", uid).
		Where("accountNumber", "==", accountNumber)
	docs, err := t.tx.Documents(q).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to query accounts", err)
	}
	cards, err := decodeAll[models.Card](docs, "account")
	if err != nil {
		return nil, err
	}
	for _, c := range cards {
		if !c.Deleted() {
			return c, nil
		}
	}
	return nil, errs.NewNotFoundError("account not found")
}

func (t *firestoreTx) Currency(id string) (*models.Currency, error) {
	snap, err := t.tx.Get(t.client.Collection(currenciesCollection).Doc(id))
	if err != nil {
		return nil, readErr(err, "currency")
	}
	return decode[models.Currency](snap, "currency")
}

func (t *firestoreTx) Transaction(id string) (*models.Transaction, error) {
	snap, err := t.tx.Get(t.client.Collection(transactionsCollection).Doc(id))
	if err != nil {
		return nil, readErr(err, "transaction")
	}
	return decode[models.Transaction](snap, "transaction")
}

func (t *firestoreTx) Bill(uid, id string) (*models.Bill, error) {
	snap, err := t.tx.Get(userScoped(t.client, uid, billsCollection).Doc(id))
	if err != nil {
		return nil, readErr(err, "bill")
	}
	return decode[models.Bill](snap, "bill")
}

func (t *firestoreTx) LinkedExpense(uid, txID string) (*models.Expense, error) {
	q := userScoped(t.client, uid, expensesCollection).Where("transactionId", "==", txID).Limit(1)
	docs, err := t.tx.Documents(q).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to query linked expense", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decode[models.Expense](docs[0], "expense")
}

func (t *firestoreTx) PutCard(card *models.Card) error {
	card.UpdatedAt = t.now
	return t.tx.Set(t.client.Collection(cardsCollection).Doc(card.CardID), card)
}

func (t *firestoreTx) PutTransaction(tr *models.Transaction) error {
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = t.now
	}
	tr.UpdatedAt = t.now
	return t.tx.Set(t.client.Collection(transactionsCollection).Doc(tr.TransactionID), tr)
}

func (t *firestoreTx) DeleteTransaction(id string) error {
	return t.tx.Delete(t.client.Collection(transactionsCollection).Doc(id))
}

func (t *firestoreTx) PutBill(uid string, b *models.Bill) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = t.now
	}
	b.UpdatedAt = t.now
	return t.tx.Set(userScoped(t.client, uid, billsCollection).Doc(b.BillID), b)
}

func (t *firestoreTx) DeleteBill(uid, id string) error {
	return t.tx.Delete(userScoped(t.client, uid, billsCollection).Doc(id))
}

func (t *firestoreTx) PutExpense(uid string, e *models.Expense) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = t.now
	}
	e.UpdatedAt = t.now
	return t.tx.Set(userScoped(t.client, uid, expensesCollection).Doc(e.ExpenseID), e)
}

func (t *firestoreTx) DeleteExpense(uid, id string) error {
	return t.tx.Delete(userScoped(t.client, uid, expensesCollection).Doc(id))
}
