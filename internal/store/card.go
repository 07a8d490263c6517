package store

import (
	"context"
	"encoding/base64"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

// numberIndex documents reserve an account number across all owners. The
// document id is the encoded number since numbers may contain slashes.
type numberIndex struct {
	CardID  string `firestore:"cardId"`
	OwnerID string `firestore:"ownerId"`
}

type cardStore struct {
	client *firestore.Client
}

func NewCardStore(client *firestore.Client) *cardStore {
	return &cardStore{client: client}
}

func (s *cardStore) collection() *firestore.CollectionRef {
	return s.client.Collection(cardsCollection)
}

func (s *cardStore) numberDoc(number string) *firestore.DocumentRef {
	return s.client.Collection(accountNumbersCollection).Doc(base64.RawURLEncoding.EncodeToString([]byte(number)))
}

// Create stores a new card and claims its account number in one transaction.
// Numbers are unique across all owners.
func (s *cardStore) Create(ctx context.Context, card *models.Card) error {
	now := time.Now()
	card.CreatedAt, card.UpdatedAt = now, now

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := s.claimNumber(tx, card); err != nil {
			return err
		}
		return tx.Create(s.collection().Doc(card.CardID), card)
	})
	return txErr(err, "create account")
}

// Get returns the card only when uid owns it and it has not been removed.
func (s *cardStore) Get(ctx context.Context, uid, id string) (*models.Card, error) {
	snap, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		return nil, readErr(err, "account")
	}
	card, err := decode[models.Card](snap, "account")
	if err != nil {
		return nil, err
	}
	if card.OwnerID != uid || card.Deleted() {
		return nil, errs.NewNotFoundError("account not found")
	}
	return card, nil
}

func (s *cardStore) List(ctx context.Context, uid string) ([]*models.Card, error) {
	docs, err := s.collection().Where("ownerId", "==", uid).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list accounts", err)
	}
	cards, err := decodeAll[models.Card](docs, "account")
	if err != nil {
		return nil, err
	}
	out := cards[:0]
	for _, c := range cards {
		if !c.Deleted() {
			out = append(out, c)
		}
	}
	return out, nil
}

// UpdateDetails writes the non-balance fields of card. The balance stored in
// Firestore is left as it is.
func (s *cardStore) UpdateDetails(ctx context.Context, card *models.Card) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := s.collection().Doc(card.CardID)
		snap, err := tx.Get(ref)
		if err != nil {
			return readErr(err, "account")
		}
		current, err := decode[models.Card](snap, "account")
		if err != nil {
			return err
		}
		if current.OwnerID != card.OwnerID || current.Deleted() {
			return errs.NewNotFoundError("account not found")
		}
		if current.AccountNumber != card.AccountNumber {
			if err := s.claimNumber(tx, card); err != nil {
				return err
			}
			if err := tx.Delete(s.numberDoc(current.AccountNumber)); err != nil {
				return err
			}
		}
		card.Balance = current.Balance
		card.CreatedAt = current.CreatedAt
		card.UpdatedAt = time.Now()
		return tx.Update(ref, []firestore.Update{
			{Path: "bankName", Value: card.BankName},
			{Path: "type", Value: card.Type},
			{Path: "branchName", Value: card.BranchName},
			{Path: "accountNumber", Value: card.AccountNumber},
			{Path: "currencyId", Value: card.CurrencyID},
			{Path: "isActive", Value: card.IsActive},
			{Path: "updatedAt", Value: card.UpdatedAt},
		})
	})
	return txErr(err, "update account")
}

// SoftDelete hides the card and releases its account number. Its balance is
// not corrected.
func (s *cardStore) SoftDelete(ctx context.Context, uid, id string) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := s.collection().Doc(id)
		snap, err := tx.Get(ref)
		if err != nil {
			return readErr(err, "account")
		}
		card, err := decode[models.Card](snap, "account")
		if err != nil {
			return err
		}
		if card.OwnerID != uid || card.Deleted() {
			return errs.NewNotFoundError("account not found")
		}
		now := time.Now()
		if err := tx.Delete(s.numberDoc(card.AccountNumber)); err != nil {
			return err
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "deletedAt", Value: now},
			{Path: "isActive", Value: false},
			{Path: "updatedAt", Value: now},
		})
	})
	return txErr(err, "delete account")
}

func (s *cardStore) claimNumber(tx *firestore.Transaction, card *models.Card) error {
	ref := s.numberDoc(card.AccountNumber)
	snap, err := tx.Get(ref)
	switch {
	case err == nil:
		idx, err := decode[numberIndex](snap, "account number")
		if err != nil {
			return err
		}
		if idx.CardID != card.CardID {
			return errs.NewValidationError("account number already exists")
		}
		return nil
	case status.Code(err) != codes.NotFound:
		return errs.NewDatabaseError("read", "failed to check account number", err)
	}
	return tx.Create(ref, numberIndex{CardID: card.CardID, OwnerID: card.OwnerID})
}
