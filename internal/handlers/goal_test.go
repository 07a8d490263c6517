package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

type stubGoalService struct {
	called      bool
	year, month int
	category    string
}

func (s *stubGoalService) Create(ctx context.Context, uid string, req dto.GoalRequest) (*models.Goal, error) {
	return &models.Goal{}, nil
}

func (s *stubGoalService) Update(ctx context.Context, uid, id string, req dto.GoalRequest) (*models.Goal, error) {
	return &models.Goal{}, nil
}

func (s *stubGoalService) Delete(ctx context.Context, uid, id string) error { return nil }

func (s *stubGoalService) List(ctx context.Context, uid string) (dto.GoalsByPeriod, error) {
	return dto.GoalsByPeriod{}, nil
}

func (s *stubGoalService) ByPeriod(ctx context.Context, uid string, year, month int, category string) ([]dto.GoalView, error) {
	s.called = true
	s.year, s.month, s.category = year, month, category
	return nil, nil
}

func (s *stubGoalService) Categories(ctx context.Context, uid string) ([]string, error) {
	return []string{"savings"}, nil
}

func TestGoalByPeriod(t *testing.T) {
	svc := &stubGoalService{}
	resp := &stubResponseHandler{}
	h := NewGoalHandlers(&Deps{ResponseHandler: resp, GoalSvc: svc})

	req := withChiParams(httptest.NewRequest(http.MethodGet, "/goals/2024/3/travel", nil),
		"year", "2024", "month", "3", "category", "travel")
	h.ByPeriod(httptest.NewRecorder(), withUID(req, "u1"))

	if svc.year != 2024 || svc.month != 3 || svc.category != "travel" {
		t.Fatalf("unexpected args %d/%d/%q", svc.year, svc.month, svc.category)
	}
}

func TestGoalByPeriodBadYear(t *testing.T) {
	svc := &stubGoalService{}
	resp := &stubResponseHandler{}
	h := NewGoalHandlers(&Deps{ResponseHandler: resp, GoalSvc: svc})

	req := withChiParams(httptest.NewRequest(http.MethodGet, "/goals/abc/3", nil), "year", "abc", "month", "3")
	h.ByPeriod(httptest.NewRecorder(), withUID(req, "u1"))

	var verr *errs.ValidationError
	if !errors.As(resp.handleError, &verr) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
	if svc.called {
		t.Fatal("service should not be called")
	}
}

func TestGoalCategoriesEnvelope(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewGoalHandlers(&Deps{ResponseHandler: resp, GoalSvc: &stubGoalService{}})

	h.Categories(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/goals/categories", nil), "u1"))

	data, ok := resp.writeSuccessData.(map[string][]string)
	if !ok || len(data["categories"]) != 1 {
		t.Fatalf("unexpected data %#v", resp.writeSuccessData)
	}
}
