package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/middleware"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/internal/response"
)

type expenseService interface {
	Create(ctx context.Context, uid string, req dto.CreateExpenseRequest) (*models.Expense, error)
	Update(ctx context.Context, uid, id string, req dto.UpdateExpenseRequest) (*models.Expense, error)
	DeleteByCategory(ctx context.Context, uid, category string) (int, error)
	Report(ctx context.Context, uid string) (*dto.ExpenseReport, error)
	Insights(ctx context.Context, uid string) ([]dto.Insight, error)
	Categorize(ctx context.Context, description string) dto.CategorySuggestion
}

type expenseHandlers struct {
	ResponseHandler response.ResponseHandler
	ExpenseSvc      expenseService
}

func NewExpenseHandlers(deps *Deps) *expenseHandlers {
	return &expenseHandlers{
		ResponseHandler: deps.ResponseHandler,
		ExpenseSvc:      deps.ExpenseSvc,
	}
}

func (h *expenseHandlers) ExpenseRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.Report)
	r.Get("/categorize", h.Categorize)
	r.Put("/{id}", h.Update)
	r.Delete("/{category}", h.DeleteByCategory)
	return r
}

func (h *expenseHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	e, err := h.ExpenseSvc.Create(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, e)
}

func (h *expenseHandlers) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.ExpenseSvc.Report(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, report)
}

func (h *expenseHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	e, err := h.ExpenseSvc.Update(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, e)
}

func (h *expenseHandlers) DeleteByCategory(w http.ResponseWriter, r *http.Request) {
	n, err := h.ExpenseSvc.DeleteByCategory(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "category"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]int{"deleted": n})
}

func (h *expenseHandlers) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.ExpenseSvc.Insights(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{"insights": insights})
}

func (h *expenseHandlers) Categorize(w http.ResponseWriter, r *http.Request) {
	s := h.ExpenseSvc.Categorize(r.Context(), r.URL.Query().Get("description"))
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, s)
}
