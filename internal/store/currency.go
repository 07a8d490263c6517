package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

type currencyStore struct {
	client *firestore.Client
}

func NewCurrencyStore(client *firestore.Client) *currencyStore {
	return &currencyStore{client: client}
}

func (s *currencyStore) collection() *firestore.CollectionRef {
	return s.client.Collection(currenciesCollection)
}

// Save creates or replaces c, rejecting a code already used by another currency.
func (s *currencyStore) Save(ctx context.Context, c *models.Currency, create bool) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := s.collection().Doc(c.CurrencyID)
		if !create {
			if _, err := tx.Get(ref); err != nil {
				return readErr(err, "currency")
			}
		}
		docs, err := tx.Documents(s.collection().Where("code", "==", c.Code)).GetAll()
		if err != nil {
			return errs.NewDatabaseError("read", "failed to check currency code", err)
		}
		for _, d := range docs {
			if d.Ref.ID != c.CurrencyID {
				return errs.NewValidationError("currency code " + c.Code + " already exists")
			}
		}
		if create {
			return tx.Create(ref, c)
		}
		return tx.Set(ref, c)
	})
	return txErr(err, "save currency")
}

func (s *currencyStore) Get(ctx context.Context, id string) (*models.Currency, error) {
	snap, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		return nil, readErr(err, "currency")
	}
	return decode[models.Currency](snap, "currency")
}

func (s *currencyStore) List(ctx context.Context) ([]*models.Currency, error) {
	docs, err := s.collection().OrderBy("code", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list currencies", err)
	}
	return decodeAll[models.Currency](docs, "currency")
}

func (s *currencyStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if _, err := s.collection().Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete currency", err)
	}
	return nil
}
