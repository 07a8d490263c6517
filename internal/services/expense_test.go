package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/pkg/helpers"
)

type stubExpenseStore struct {
	l         *fakeLedger
	deleted   int
	deleteErr error
	updated   *models.Expense
}

func (s *stubExpenseStore) Get(_ context.Context, uid, id string) (*models.Expense, error) {
	e, ok := s.l.expenses[scopedKey(uid, id)]
	if !ok {
		return nil, errs.NewNotFoundError("expense not found")
	}
	return &e, nil
}

func (s *stubExpenseStore) Update(_ context.Context, uid string, e *models.Expense) error {
	s.updated = e
	s.l.expenses[scopedKey(uid, e.ExpenseID)] = *e
	return nil
}

func (s *stubExpenseStore) InRange(_ context.Context, uid string, from, to time.Time) ([]*models.Expense, error) {
	var out []*models.Expense
	for _, e := range s.l.expenses {
		if e.UserID == uid && !e.Date.Before(from) && e.Date.Before(to) {
			v := e
			out = append(out, &v)
		}
	}
	sortExpenses(out)
	return out, nil
}

func (s *stubExpenseStore) DeleteByCategory(_ context.Context, _, _ string) (int, error) {
	return s.deleted, s.deleteErr
}

func sortExpenses(list []*models.Expense) {
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j].Date.Before(list[j-1].Date); j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
}

type stubModel struct {
	resp  dto.VertexGenerateResponse
	err   error
	calls int
	req   dto.VertexGenerateRequest
}

func (m *stubModel) Generate(_ context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	m.calls++
	m.req = req
	return m.resp, m.err
}

var expenseNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newExpenseFixture(model categoryModel) (*fakeLedger, *stubExpenseStore, *expenseService) {
	l := newFakeLedger()
	l.addCurrency("usd", "USD", 1)
	l.addCard("acc", "u1", "111", "usd", 100)
	store := &stubExpenseStore{l: l}
	svc := NewExpenseService(l, store, model)
	svc.clockNow = fixedClock(expenseNow)
	return l, store, svc
}

func TestExpenseCreate_DerivesCategory(t *testing.T) {
	l, _, svc := newExpenseFixture(nil)

	e, err := svc.Create(helpers.TestCtx(), "u1", dto.CreateExpenseRequest{Amount: 12, Description: "Pizza Hut dinner", CurrencyID: "usd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Category != "food" {
		t.Fatalf("category = %q, want food", e.Category)
	}
	if !e.Date.Equal(expenseNow) {
		t.Fatalf("date should default to now, got %v", e.Date)
	}
	if _, ok := l.expenses[scopedKey("u1", e.ExpenseID)]; !ok {
		t.Fatal("expense not stored")
	}
}

func TestExpenseCreate_LinkedTransactionChecks(t *testing.T) {
	l, _, svc := newExpenseFixture(nil)
	l.transactions["t1"] = models.Transaction{TransactionID: "t1", UserID: "u1"}
	l.transactions["t2"] = models.Transaction{TransactionID: "t2", UserID: "u2"}

	req := dto.CreateExpenseRequest{Amount: 5, CurrencyID: "usd", Category: "food", TransactionID: "t1"}
	if _, err := svc.Create(helpers.TestCtx(), "u1", req); err != nil {
		t.Fatalf("first link: %v", err)
	}
	if _, err := svc.Create(helpers.TestCtx(), "u1", req); !isValidation(err) {
		t.Fatalf("second link: expected ValidationError, got %v", err)
	}

	req.TransactionID = "t2"
	_, err := svc.Create(helpers.TestCtx(), "u1", req)
	var fe *errs.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("foreign transaction: expected ForbiddenError, got %v", err)
	}

	req.TransactionID = "missing"
	if _, err := svc.Create(helpers.TestCtx(), "u1", req); !isInvalidReference(err) {
		t.Fatalf("missing transaction: expected InvalidReferenceError, got %v", err)
	}
}

func TestExpenseCreate_Rejections(t *testing.T) {
	_, _, svc := newExpenseFixture(nil)

	if _, err := svc.Create(helpers.TestCtx(), "u1", dto.CreateExpenseRequest{Amount: 0, CurrencyID: "usd"}); !isValidation(err) {
		t.Fatalf("zero amount: got %v", err)
	}
	if _, err := svc.Create(helpers.TestCtx(), "u1", dto.CreateExpenseRequest{Amount: 1, CurrencyID: "nope"}); !isInvalidReference(err) {
		t.Fatalf("unknown currency: got %v", err)
	}
	if _, err := svc.Create(helpers.TestCtx(), "u1", dto.CreateExpenseRequest{Amount: 1, CurrencyID: "usd", Date: "yesterday"}); !isValidation(err) {
		t.Fatalf("bad date: got %v", err)
	}
}

func TestExpenseUpdate(t *testing.T) {
	l, store, svc := newExpenseFixture(nil)
	l.expenses[scopedKey("u1", "e1")] = models.Expense{ExpenseID: "e1", UserID: "u1", Category: "food", Amount: 3}

	e, err := svc.Update(helpers.TestCtx(), "u1", "e1", dto.UpdateExpenseRequest{Amount: helpers.Ptr(9.5), Subcategory: helpers.Ptr("lunch")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Amount != 9.5 || e.Subcategory != "lunch" || e.Category != "food" || store.updated == nil {
		t.Fatalf("unexpected expense %+v", e)
	}

	if _, err := svc.Update(helpers.TestCtx(), "u1", "missing", dto.UpdateExpenseRequest{}); !isNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestExpenseDeleteByCategory(t *testing.T) {
	_, store, svc := newExpenseFixture(nil)

	if _, err := svc.DeleteByCategory(helpers.TestCtx(), "u1", "food"); !isNotFound(err) {
		t.Fatalf("empty category: expected NotFoundError, got %v", err)
	}
	store.deleted = 3
	n, err := svc.DeleteByCategory(helpers.TestCtx(), "u1", "food")
	if err != nil || n != 3 {
		t.Fatalf("got n=%d err=%v", n, err)
	}
}

func TestExpenseReport(t *testing.T) {
	l, _, svc := newExpenseFixture(nil)
	add := func(id, category, sub string, amount float64, date time.Time) {
		l.expenses[scopedKey("u1", id)] = models.Expense{ExpenseID: id, UserID: "u1", Category: category, Subcategory: sub, Amount: amount, Date: date}
	}
	add("1", "food", "lunch", 30, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	add("2", "food", "", 20, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	add("3", "food", "", 40, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	add("4", "", "", 10, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	add("5", "travel", "", 15, time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC))
	add("6", "food", "", 99, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	r, err := svc.Report(helpers.TestCtx(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Expenses) != 3 {
		t.Fatalf("expected 3 categories, got %+v", r.Expenses)
	}
	byName := map[string]dto.CategoryReport{}
	for _, c := range r.Expenses {
		byName[c.Category] = c
	}

	food := byName["food"]
	if food.ThisMonthTotal != 50 || food.LastMonthTotal != 40 || food.PercentChange != 25 {
		t.Fatalf("food = %+v", food)
	}
	if len(food.Subcategories) != 2 || food.Subcategories[1].Name != "Uncategorized" {
		t.Fatalf("food subcategories = %+v", food.Subcategories)
	}
	if other := byName["Other"]; other.ThisMonthTotal != 10 || other.PercentChange != 100 {
		t.Fatalf("other = %+v", other)
	}
	if travel := byName["travel"]; travel.ThisMonthTotal != 0 || travel.PercentChange != -100 || len(travel.Subcategories) != 0 {
		t.Fatalf("travel = %+v", travel)
	}
	if !r.ThisMonthRange.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("this month start = %v", r.ThisMonthRange.Start)
	}
	if r.LastMonthRange.End.Month() != time.February || r.LastMonthRange.End.Day() != 29 {
		t.Fatalf("last month end = %v", r.LastMonthRange.End)
	}
}

func TestCategorize(t *testing.T) {
	t.Run("keywords win", func(t *testing.T) {
		m := &stubModel{}
		_, _, svc := newExpenseFixture(m)
		got := svc.Categorize(helpers.TestCtx(), "Uber to airport")
		if got.Category != "transport" || got.Source != "keywords" || m.calls != 0 {
			t.Fatalf("got %+v calls=%d", got, m.calls)
		}
	})

	t.Run("model fallback", func(t *testing.T) {
		m := &stubModel{resp: dto.VertexGenerateResponse{Args: map[string]any{"category": "Entertainment"}}}
		_, _, svc := newExpenseFixture(m)
		got := svc.Categorize(helpers.TestCtx(), "Concert tickets")
		if got.Category != "entertainment" || got.Source != "model" {
			t.Fatalf("got %+v", got)
		}
		if m.req.Function == nil || m.req.Function.Name != categoryFunction {
			t.Fatalf("model should be forced through %s, got %+v", categoryFunction, m.req.Function)
		}
	})

	t.Run("model error falls back", func(t *testing.T) {
		m := &stubModel{err: errors.New("quota")}
		_, _, svc := newExpenseFixture(m)
		got := svc.Categorize(helpers.TestCtx(), "Concert tickets")
		if got.Category != "other" || got.Source != "keywords" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("unknown model answer falls back", func(t *testing.T) {
		m := &stubModel{resp: dto.VertexGenerateResponse{Args: map[string]any{"category": "luxury"}}}
		_, _, svc := newExpenseFixture(m)
		if got := svc.Categorize(helpers.TestCtx(), "Yacht"); got.Category != "other" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("empty description skips model", func(t *testing.T) {
		m := &stubModel{}
		_, _, svc := newExpenseFixture(m)
		if got := svc.Categorize(helpers.TestCtx(), ""); got.Category != "other" || m.calls != 0 {
			t.Fatalf("got %+v calls=%d", got, m.calls)
		}
	})
}
