package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) collection() *firestore.CollectionRef {
	return s.client.Collection(transactionsCollection)
}

// List returns the user's transactions newest first by creation time.
func (s *transactionStore) List(ctx context.Context, uid string, filter dto.TransactionFilter) ([]*models.Transaction, error) {
	q := s.collection().Where("userId", "==", uid)
	if filter.AccountID != "" {
		q = q.Where("accountId", "==", filter.AccountID)
	}
	if filter.Kind != "" {
		q = q.Where("kind", "==", filter.Kind)
	}
	q = q.OrderBy("createdAt", firestore.Desc)

	var out []*models.Transaction
	err := s.iterate(ctx, q, func(t *models.Transaction) error {
		out = append(out, t)
		return nil
	})
	return out, err
}

// InRange streams the user's transactions dated in [from, to) to fn.
func (s *transactionStore) InRange(ctx context.Context, uid string, from, to time.Time, fn func(*models.Transaction) error) error {
	q := s.collection().
		Where("userId", "==", uid).
		Where("date", ">=", from).
		Where("date", "<", to).
		OrderBy("date", firestore.Asc)
	return s.iterate(ctx, q, fn)
}

func (s *transactionStore) iterate(ctx context.Context, q firestore.Query, fn func(*models.Transaction) error) error {
	iter := q.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to query transactions", err)
		}
		t, err := decode[models.Transaction](doc, "transaction")
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
	}
}
