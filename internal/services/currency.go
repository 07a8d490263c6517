package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

type currencyStore interface {
	Save(ctx context.Context, c *models.Currency, create bool) error
	Get(ctx context.Context, id string) (*models.Currency, error)
	List(ctx context.Context) ([]*models.Currency, error)
	Delete(ctx context.Context, id string) error
}

// currencyCache is optional; a nil cache reads straight from the store.
type currencyCache interface {
	Get(ctx context.Context, id string) (*models.Currency, error)
	Set(ctx context.Context, c *models.Currency) error
	List(ctx context.Context) ([]*models.Currency, error)
	SetList(ctx context.Context, list []*models.Currency) error
	Invalidate(ctx context.Context, id string) error
}

type currencyService struct {
	store currencyStore
	cache currencyCache
}

func NewCurrencyService(store currencyStore, cache currencyCache) *currencyService {
	return &currencyService{store: store, cache: cache}
}

func (s *currencyService) Create(ctx context.Context, req dto.CurrencyRequest) (*models.Currency, error) {
	c := &models.Currency{CurrencyID: uuid.New().String()}
	if err := applyCurrency(c, req); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, c, true); err != nil {
		return nil, err
	}
	s.invalidate(ctx, c.CurrencyID)
	logger.FromContext(ctx).Info("currency created", "currency_id", c.CurrencyID, "code", c.Code)
	return c, nil
}

// Lookup returns the currency or NotFound.
func (s *currencyService) Lookup(ctx context.Context, id string) (*models.Currency, error) {
	log := logger.FromContext(ctx)
	if s.cache != nil {
		c, err := s.cache.Get(ctx, id)
		if err != nil {
			log.Warn("currency cache read failed", "error", err)
		} else if c != nil {
			return c, nil
		}
	}

	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, c); err != nil {
			log.Warn("currency cache write failed", "error", err)
		}
	}
	return c, nil
}

func (s *currencyService) List(ctx context.Context) ([]*models.Currency, error) {
	log := logger.FromContext(ctx)
	if s.cache != nil {
		list, err := s.cache.List(ctx)
		if err != nil {
			log.Warn("currency cache read failed", "error", err)
		} else if list != nil {
			return list, nil
		}
	}

	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetList(ctx, list); err != nil {
			log.Warn("currency cache write failed", "error", err)
		}
	}
	return list, nil
}

func (s *currencyService) Update(ctx context.Context, id string, req dto.CurrencyRequest) (*models.Currency, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyCurrency(c, req); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, c, false); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return c, nil
}

func (s *currencyService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *currencyService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.FromContext(ctx).Warn("currency cache invalidation failed", "currency_id", id, "error", err)
	}
}

func applyCurrency(c *models.Currency, req dto.CurrencyRequest) error {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return errs.NewValidationError("currency code is required")
	}
	if req.ExchangeRate <= 0 {
		return errs.NewValidationError("exchangeRate must be positive")
	}
	c.Code = code
	c.Description = req.Description
	c.ExchangeRate = req.ExchangeRate
	return nil
}
