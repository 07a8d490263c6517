package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/middleware"
	"github.com/GregMSThompson/ledger-backend/internal/response"
)

type transactionService interface {
	Post(ctx context.Context, uid string, req dto.PostTransactionRequest) (*dto.TransactionView, error)
	Amend(ctx context.Context, uid, id string, req dto.AmendTransactionRequest) (*dto.TransactionView, error)
	Delete(ctx context.Context, uid, id string) error
	List(ctx context.Context, uid string, filter dto.TransactionFilter) ([]*dto.TransactionView, error)
	ListByAccount(ctx context.Context, uid, accountID string) ([]*dto.TransactionView, error)
	Summary(ctx context.Context, uid string) (*dto.MonthlySummary, error)
	DailySummary(ctx context.Context, uid string) ([]dto.DailyTotals, error)
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  transactionService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Post)
	r.Get("/", h.List)
	r.Get("/summary", h.Summary)
	r.Get("/daily-summary", h.DailySummary)
	r.Get("/bank/{bankId}", h.ListByAccount)
	r.Get("/type/{transactionType}", h.ListByKind)
	r.Put("/{id}", h.Amend)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *transactionHandlers) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	v, err := h.TransactionSvc.Post(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, v)
}

// List accepts optional bankId and transactionType query filters.
func (h *transactionHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := dto.TransactionFilter{AccountID: q.Get("bankId"), Kind: q.Get("transactionType")}
	list, err := h.TransactionSvc.List(r.Context(), middleware.UID(r.Context()), filter)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, list)
}

func (h *transactionHandlers) ListByAccount(w http.ResponseWriter, r *http.Request) {
	list, err := h.TransactionSvc.ListByAccount(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "bankId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, list)
}

func (h *transactionHandlers) ListByKind(w http.ResponseWriter, r *http.Request) {
	filter := dto.TransactionFilter{Kind: chi.URLParam(r, "transactionType")}
	list, err := h.TransactionSvc.List(r.Context(), middleware.UID(r.Context()), filter)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, list)
}

func (h *transactionHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.TransactionSvc.Summary(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, sum)
}

func (h *transactionHandlers) DailySummary(w http.ResponseWriter, r *http.Request) {
	days, err := h.TransactionSvc.DailySummary(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, days)
}

func (h *transactionHandlers) Amend(w http.ResponseWriter, r *http.Request) {
	var req dto.AmendTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	v, err := h.TransactionSvc.Amend(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, v)
}

func (h *transactionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.TransactionSvc.Delete(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.MessageResponse{Message: "Transaction deleted"})
}
