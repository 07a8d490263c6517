package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

type stubExpenseService struct {
	category    string
	description string
	deleted     int
}

func (s *stubExpenseService) Create(ctx context.Context, uid string, req dto.CreateExpenseRequest) (*models.Expense, error) {
	return &models.Expense{}, nil
}

func (s *stubExpenseService) Update(ctx context.Context, uid, id string, req dto.UpdateExpenseRequest) (*models.Expense, error) {
	return &models.Expense{}, nil
}

func (s *stubExpenseService) DeleteByCategory(ctx context.Context, uid, category string) (int, error) {
	s.category = category
	return s.deleted, nil
}

func (s *stubExpenseService) Report(ctx context.Context, uid string) (*dto.ExpenseReport, error) {
	return &dto.ExpenseReport{}, nil
}

func (s *stubExpenseService) Insights(ctx context.Context, uid string) ([]dto.Insight, error) {
	return []dto.Insight{{Type: "top_category"}}, nil
}

func (s *stubExpenseService) Categorize(ctx context.Context, description string) dto.CategorySuggestion {
	s.description = description
	return dto.CategorySuggestion{Category: "food", Source: "keywords"}
}

func TestExpenseDeleteByCategory(t *testing.T) {
	svc := &stubExpenseService{deleted: 3}
	resp := &stubResponseHandler{}
	h := NewExpenseHandlers(&Deps{ResponseHandler: resp, ExpenseSvc: svc})

	req := withChiParams(httptest.NewRequest(http.MethodDelete, "/expenses/food", nil), "category", "food")
	h.DeleteByCategory(httptest.NewRecorder(), withUID(req, "u1"))

	if svc.category != "food" {
		t.Fatalf("expected food, got %q", svc.category)
	}
	data, ok := resp.writeSuccessData.(map[string]int)
	if !ok || data["deleted"] != 3 {
		t.Fatalf("unexpected data %#v", resp.writeSuccessData)
	}
}

func TestExpenseCategorize(t *testing.T) {
	svc := &stubExpenseService{}
	resp := &stubResponseHandler{}
	h := NewExpenseHandlers(&Deps{ResponseHandler: resp, ExpenseSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/expenses/categorize?description=pizza+night", nil)
	h.Categorize(httptest.NewRecorder(), withUID(req, "u1"))

	if svc.description != "pizza night" {
		t.Fatalf("unexpected description %q", svc.description)
	}
	s, ok := resp.writeSuccessData.(dto.CategorySuggestion)
	if !ok || s.Category != "food" {
		t.Fatalf("unexpected suggestion %#v", resp.writeSuccessData)
	}
}

func TestExpenseInsights(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewExpenseHandlers(&Deps{ResponseHandler: resp, ExpenseSvc: &stubExpenseService{}})

	h.Insights(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/insights", nil), "u1"))

	data, ok := resp.writeSuccessData.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data %#v", resp.writeSuccessData)
	}
	if ins, _ := data["insights"].([]dto.Insight); len(ins) != 1 {
		t.Fatalf("expected one insight, got %#v", data["insights"])
	}
}
