package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/pkg/helpers"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

const fallbackCurrencyCode = "USD"

type goalStore interface {
	Create(ctx context.Context, uid string, g *models.Goal) error
	Get(ctx context.Context, uid, id string) (*models.Goal, error)
	Update(ctx context.Context, uid string, g *models.Goal) error
	Delete(ctx context.Context, uid, id string) error
	List(ctx context.Context, uid string, year, month int) ([]*models.Goal, error)
}

type goalService struct {
	store      goalStore
	currencies currencyLister
}

func NewGoalService(store goalStore, currencies currencyLister) *goalService {
	return &goalService{store: store, currencies: currencies}
}

func (s *goalService) Create(ctx context.Context, uid string, req dto.GoalRequest) (*models.Goal, error) {
	g := &models.Goal{GoalID: uuid.New().String(), UserID: uid}
	applyGoal(g, req)
	if err := validateGoal(g); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, uid, g); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("goal created", "goal_id", g.GoalID)
	return g, nil
}

func (s *goalService) Update(ctx context.Context, uid, id string, req dto.GoalRequest) (*models.Goal, error) {
	g, err := s.store.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	applyGoal(g, req)
	if err := validateGoal(g); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, uid, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *goalService) Delete(ctx context.Context, uid, id string) error {
	return s.store.Delete(ctx, uid, id)
}

// List groups every goal of the user by year, then month.
func (s *goalService) List(ctx context.Context, uid string) (dto.GoalsByPeriod, error) {
	goals, err := s.store.List(ctx, uid, 0, 0)
	if err != nil {
		return nil, err
	}
	codes, err := s.currencyCodes(ctx)
	if err != nil {
		return nil, err
	}

	out := dto.GoalsByPeriod{}
	for _, g := range goals {
		if out[g.Year] == nil {
			out[g.Year] = make(map[int][]dto.GoalView)
		}
		out[g.Year][g.Month] = append(out[g.Year][g.Month], goalView(g, codes))
	}
	return out, nil
}

// ByPeriod lists goals of one month, narrowed to category when it is not empty.
func (s *goalService) ByPeriod(ctx context.Context, uid string, year, month int, category string) ([]dto.GoalView, error) {
	if month < 1 || month > 12 {
		return nil, errs.NewValidationError("month must be between 1 and 12")
	}
	goals, err := s.store.List(ctx, uid, year, month)
	if err != nil {
		return nil, err
	}
	codes, err := s.currencyCodes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GoalView, 0, len(goals))
	for _, g := range goals {
		if category != "" && g.Category != category {
			continue
		}
		out = append(out, goalView(g, codes))
	}
	return out, nil
}

// Categories returns the distinct goal categories of the user, sorted.
func (s *goalService) Categories(ctx context.Context, uid string) ([]string, error) {
	goals, err := s.store.List(ctx, uid, 0, 0)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, g := range goals {
		if g.Category == "" || seen[g.Category] {
			continue
		}
		seen[g.Category] = true
		out = append(out, g.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (s *goalService) currencyCodes(ctx context.Context) (map[string]string, error) {
	list, err := s.currencies.List(ctx)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]string, len(list))
	for _, c := range list {
		codes[c.CurrencyID] = c.Code
	}
	return codes, nil
}

func applyGoal(g *models.Goal, req dto.GoalRequest) {
	if req.Title != nil {
		g.Title = strings.TrimSpace(*req.Title)
	}
	g.TargetAmount = helpers.ValueOr(req.TargetAmount, g.TargetAmount)
	g.PresentAmount = helpers.ValueOr(req.PresentAmount, g.PresentAmount)
	g.CurrencyID = helpers.ValueOr(req.CurrencyID, g.CurrencyID)
	g.Category = helpers.ValueOr(req.Category, g.Category)
	g.Month = helpers.ValueOr(req.Month, g.Month)
	g.Year = helpers.ValueOr(req.Year, g.Year)
}

func validateGoal(g *models.Goal) error {
	switch {
	case g.Title == "":
		return errs.NewValidationError("title is required")
	case g.TargetAmount <= 0:
		return errs.NewValidationError("targetAmount must be positive")
	case g.PresentAmount < 0:
		return errs.NewValidationError("presentAmount cannot be negative")
	case g.Month < 1 || g.Month > 12:
		return errs.NewValidationError("month must be between 1 and 12")
	case g.Year <= 0:
		return errs.NewValidationError("year is required")
	}
	return nil
}

func goalView(g *models.Goal, codes map[string]string) dto.GoalView {
	v := dto.GoalView{
		ID:            g.GoalID,
		Title:         g.Title,
		TargetAmount:  g.TargetAmount,
		PresentAmount: g.PresentAmount,
		Currency:      fallbackCurrencyCode,
	}
	if g.TargetAmount > 0 {
		v.Progress = round(g.PresentAmount/g.TargetAmount*100, 2)
	}
	if code, ok := codes[g.CurrencyID]; ok && code != "" {
		v.Currency = code
	}
	if g.Category != "" {
		v.Category = helpers.Ptr(g.Category)
	}
	return v
}
