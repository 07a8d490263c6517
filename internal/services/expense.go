package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/ledger"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/internal/taxonomy"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

const (
	defaultCategory    = "Other"
	defaultSubcategory = "Uncategorized"

	categoryFunction = "record_category"
)

type expenseStore interface {
	Get(ctx context.Context, uid, id string) (*models.Expense, error)
	Update(ctx context.Context, uid string, e *models.Expense) error
	InRange(ctx context.Context, uid string, from, to time.Time) ([]*models.Expense, error)
	DeleteByCategory(ctx context.Context, uid, category string) (int, error)
}

type categoryModel interface {
	Generate(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

type expenseService struct {
	ledger   ledgerStore
	store    expenseStore
	model    categoryModel
	clockNow func() time.Time
}

// NewExpenseService builds the expense service. model may be nil, in which
// case categorization uses the keyword table only.
func NewExpenseService(ls ledgerStore, store expenseStore, model categoryModel) *expenseService {
	return &expenseService{
		ledger:   ls,
		store:    store,
		model:    model,
		clockNow: time.Now,
	}
}

func (s *expenseService) Create(ctx context.Context, uid string, req dto.CreateExpenseRequest) (*models.Expense, error) {
	if req.Amount <= 0 {
		return nil, errs.NewValidationError("amount must be positive")
	}
	date := s.clockNow()
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = taxonomy.Categorize(req.Description)
	}

	e := &models.Expense{
		ExpenseID:     uuid.New().String(),
		UserID:        uid,
		Category:      category,
		Subcategory:   req.Subcategory,
		Amount:        req.Amount,
		Description:   req.Description,
		CurrencyID:    req.CurrencyID,
		Date:          date,
		TransactionID: req.TransactionID,
		BankID:        req.BankID,
	}

	err := s.ledger.RunInTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		if _, err := tx.Currency(req.CurrencyID); err != nil {
			return asInvalidReference(err, "invalid currencyId")
		}
		if req.BankID != "" {
			if _, err := ownedCard(tx, uid, req.BankID); err != nil {
				return err
			}
		}
		if req.TransactionID != "" {
			if _, err := ownedTransaction(tx, uid, req.TransactionID); err != nil {
				return asInvalidReference(err, "invalid transactionId")
			}
			linked, err := tx.LinkedExpense(uid, req.TransactionID)
			if err != nil {
				return err
			}
			if linked != nil {
				return errs.NewValidationError("transaction already has an expense")
			}
		}
		return tx.PutExpense(uid, e)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("expense created", "expense_id", e.ExpenseID, "category", e.Category)
	return e, nil
}

func (s *expenseService) Update(ctx context.Context, uid, id string, req dto.UpdateExpenseRequest) (*models.Expense, error) {
	e, err := s.store.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, errs.NewValidationError("amount must be positive")
		}
		e.Amount = *req.Amount
	}
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		e.Date = d
	}
	if req.Category != nil {
		e.Category = strings.TrimSpace(*req.Category)
	}
	if req.Subcategory != nil {
		e.Subcategory = *req.Subcategory
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.CurrencyID != nil {
		e.CurrencyID = *req.CurrencyID
	}

	if err := s.store.Update(ctx, uid, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *expenseService) DeleteByCategory(ctx context.Context, uid, category string) (int, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return 0, errs.NewValidationError("category is required")
	}
	n, err := s.store.DeleteByCategory(ctx, uid, category)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, errs.NewNotFoundError("no expenses found in category")
	}
	logger.FromContext(ctx).Info("expenses deleted", "category", category, "count", n)
	return n, nil
}

// Report groups this and last month's expenses by category with this month's
// entries listed per subcategory.
func (s *expenseService) Report(ctx context.Context, uid string) (*dto.ExpenseReport, error) {
	thisStart, lastStart, nextStart := s.monthBounds()
	this, last, err := s.months(ctx, uid)
	if err != nil {
		return nil, err
	}

	type group struct {
		this, last decimal.Decimal
		subs       []dto.SubcategoryEntry
	}
	var order []string
	groups := make(map[string]*group)
	get := func(category string) *group {
		if category == "" {
			category = defaultCategory
		}
		g, ok := groups[category]
		if !ok {
			g = &group{subs: []dto.SubcategoryEntry{}}
			groups[category] = g
			order = append(order, category)
		}
		return g
	}

	for _, e := range this {
		g := get(e.Category)
		g.this = g.this.Add(decimal.NewFromFloat(e.Amount))
		sub := e.Subcategory
		if sub == "" {
			sub = defaultSubcategory
		}
		g.subs = append(g.subs, dto.SubcategoryEntry{
			Name:        sub,
			Amount:      e.Amount,
			Date:        e.Date,
			Description: e.Description,
		})
	}
	for _, e := range last {
		g := get(e.Category)
		g.last = g.last.Add(decimal.NewFromFloat(e.Amount))
	}

	report := &dto.ExpenseReport{
		ThisMonthRange: dto.DateRange{Start: thisStart, End: nextStart.Add(-time.Millisecond)},
		LastMonthRange: dto.DateRange{Start: lastStart, End: thisStart.Add(-time.Millisecond)},
		Expenses:       make([]dto.CategoryReport, 0, len(order)),
	}
	for _, category := range order {
		g := groups[category]
		report.Expenses = append(report.Expenses, dto.CategoryReport{
			Category:       category,
			ThisMonthTotal: g.this.InexactFloat64(),
			LastMonthTotal: g.last.InexactFloat64(),
			PercentChange:  percentChange(g.this, g.last),
			Subcategories:  g.subs,
		})
	}
	return report, nil
}

func (s *expenseService) Insights(ctx context.Context, uid string) ([]dto.Insight, error) {
	this, last, err := s.months(ctx, uid)
	if err != nil {
		return nil, err
	}
	return ComputeInsights(this, last), nil
}

// Categorize suggests a category for description. The keyword table answers
// first; the model is consulted only when the table has no match.
func (s *expenseService) Categorize(ctx context.Context, description string) dto.CategorySuggestion {
	category := taxonomy.Categorize(description)
	if category != taxonomy.Other || s.model == nil || strings.TrimSpace(description) == "" {
		return dto.CategorySuggestion{Category: category, Source: "keywords"}
	}

	log := logger.FromContext(ctx)
	resp, err := s.model.Generate(ctx, dto.VertexGenerateRequest{
		System: "You classify personal expenses. Pick the single best category for the expense description.",
		Prompt: description,
		Function: &dto.VertexFunction{
			Name:        categoryFunction,
			Description: "Record the category of an expense.",
			Params:      map[string][]string{"category": taxonomy.Categories()},
		},
	})
	if err != nil {
		log.Warn("category model failed, using keyword result", "error", err)
		return dto.CategorySuggestion{Category: category, Source: "keywords"}
	}

	suggested, _ := resp.Args["category"].(string)
	suggested = strings.ToLower(strings.TrimSpace(suggested))
	if !taxonomy.Known(suggested) {
		log.Warn("category model returned unknown category", "category", suggested)
		return dto.CategorySuggestion{Category: category, Source: "keywords"}
	}
	return dto.CategorySuggestion{Category: suggested, Source: "model"}
}

func (s *expenseService) monthBounds() (thisStart, lastStart, nextStart time.Time) {
	thisStart = monthStart(s.clockNow())
	return thisStart, thisStart.AddDate(0, -1, 0), thisStart.AddDate(0, 1, 0)
}

func (s *expenseService) months(ctx context.Context, uid string) (this, last []*models.Expense, err error) {
	thisStart, lastStart, nextStart := s.monthBounds()
	if this, err = s.store.InRange(ctx, uid, thisStart, nextStart); err != nil {
		return nil, nil, err
	}
	if last, err = s.store.InRange(ctx, uid, lastStart, thisStart); err != nil {
		return nil, nil, err
	}
	return this, last, nil
}

// percentChange is rounded to a whole number; growth from nothing counts as 100.
func percentChange(this, last decimal.Decimal) int {
	switch {
	case last.IsPositive():
		return int(this.Sub(last).Div(last).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	case this.IsPositive():
		return 100
	default:
		return 0
	}
}
