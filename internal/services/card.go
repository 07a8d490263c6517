package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/pkg/helpers"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

type cardStore interface {
	Create(ctx context.Context, card *models.Card) error
	Get(ctx context.Context, uid, id string) (*models.Card, error)
	List(ctx context.Context, uid string) ([]*models.Card, error)
	UpdateDetails(ctx context.Context, card *models.Card) error
	SoftDelete(ctx context.Context, uid, id string) error
}

type currencyLookup interface {
	Lookup(ctx context.Context, id string) (*models.Currency, error)
}

type accountPostings interface {
	List(ctx context.Context, uid string, filter dto.TransactionFilter) ([]*models.Transaction, error)
}

type cardService struct {
	store        cardStore
	currencies   currencyLookup
	transactions accountPostings
}

func NewCardService(store cardStore, currencies currencyLookup, transactions accountPostings) *cardService {
	return &cardService{store: store, currencies: currencies, transactions: transactions}
}

func (s *cardService) Create(ctx context.Context, uid string, req dto.CreateCardRequest) (*models.Card, error) {
	number := strings.TrimSpace(req.AccountNumber)
	if number == "" {
		return nil, errs.NewValidationError("accountNumber is required")
	}
	if _, err := s.currencies.Lookup(ctx, req.CurrencyID); err != nil {
		return nil, asInvalidReference(err, "invalid currencyId")
	}

	card := &models.Card{
		CardID:        uuid.New().String(),
		OwnerID:       uid,
		BankName:      req.BankName,
		Type:          req.Type,
		BranchName:    req.BranchName,
		AccountNumber: number,
		Balance:       req.Balance,
		CurrencyID:    req.CurrencyID,
		IsActive:      helpers.ValueOr(req.IsActive, true),
	}
	if err := s.store.Create(ctx, card); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("account created", "account_id", card.CardID)
	return card, nil
}

func (s *cardService) Get(ctx context.Context, uid, id string) (*models.Card, error) {
	return s.store.Get(ctx, uid, id)
}

func (s *cardService) List(ctx context.Context, uid string) ([]*models.Card, error) {
	return s.store.List(ctx, uid)
}

// Update changes descriptive fields only. The currency can only be switched
// on an empty account with nothing posted to it, since balances and stored
// impacts are denominated in it.
func (s *cardService) Update(ctx context.Context, uid, id string, req dto.UpdateCardRequest) (*models.Card, error) {
	card, err := s.store.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if req.CurrencyID != nil && *req.CurrencyID != card.CurrencyID {
		if card.Balance != 0 {
			return nil, errs.NewValidationError("currencyId cannot change while the account has a balance")
		}
		posted, err := s.transactions.List(ctx, uid, dto.TransactionFilter{AccountID: card.CardID})
		if err != nil {
			return nil, err
		}
		if len(posted) > 0 {
			return nil, errs.NewValidationError("currencyId cannot change once transactions are recorded")
		}
		if _, err := s.currencies.Lookup(ctx, *req.CurrencyID); err != nil {
			return nil, asInvalidReference(err, "invalid currencyId")
		}
		card.CurrencyID = *req.CurrencyID
	}
	if req.AccountNumber != nil {
		number := strings.TrimSpace(*req.AccountNumber)
		if number == "" {
			return nil, errs.NewValidationError("accountNumber cannot be empty")
		}
		card.AccountNumber = number
	}
	card.BankName = helpers.ValueOr(req.BankName, card.BankName)
	card.Type = helpers.ValueOr(req.Type, card.Type)
	card.BranchName = helpers.ValueOr(req.BranchName, card.BranchName)
	card.IsActive = helpers.ValueOr(req.IsActive, card.IsActive)

	if err := s.store.UpdateDetails(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *cardService) Delete(ctx context.Context, uid, id string) error {
	if err := s.store.SoftDelete(ctx, uid, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("account removed", "account_id", id)
	return nil
}
