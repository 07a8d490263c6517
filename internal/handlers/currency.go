package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/internal/response"
)

type currencyService interface {
	Create(ctx context.Context, req dto.CurrencyRequest) (*models.Currency, error)
	Lookup(ctx context.Context, id string) (*models.Currency, error)
	List(ctx context.Context) ([]*models.Currency, error)
	Update(ctx context.Context, id string, req dto.CurrencyRequest) (*models.Currency, error)
	Delete(ctx context.Context, id string) error
}

type currencyHandlers struct {
	ResponseHandler response.ResponseHandler
	CurrencySvc     currencyService
}

func NewCurrencyHandlers(deps *Deps) *currencyHandlers {
	return &currencyHandlers{
		ResponseHandler: deps.ResponseHandler,
		CurrencySvc:     deps.CurrencySvc,
	}
}

func (h *currencyHandlers) CurrencyRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *currencyHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CurrencyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	c, err := h.CurrencySvc.Create(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, c)
}

func (h *currencyHandlers) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.CurrencySvc.List(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, list)
}

func (h *currencyHandlers) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.CurrencySvc.Lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, c)
}

func (h *currencyHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.CurrencyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	c, err := h.CurrencySvc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, c)
}

func (h *currencyHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.CurrencySvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.MessageResponse{Message: "Currency deleted"})
}
