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

type cardService interface {
	Create(ctx context.Context, uid string, req dto.CreateCardRequest) (*models.Card, error)
	Get(ctx context.Context, uid, id string) (*models.Card, error)
	List(ctx context.Context, uid string) ([]*models.Card, error)
	Update(ctx context.Context, uid, id string, req dto.UpdateCardRequest) (*models.Card, error)
	Delete(ctx context.Context, uid, id string) error
}

type transferService interface {
	Transfer(ctx context.Context, uid string, req dto.TransferRequest) (*dto.TransferResult, error)
}

type cardHandlers struct {
	ResponseHandler response.ResponseHandler
	CardSvc         cardService
	TransferSvc     transferService
}

func NewCardHandlers(deps *Deps) *cardHandlers {
	return &cardHandlers{
		ResponseHandler: deps.ResponseHandler,
		CardSvc:         deps.CardSvc,
		TransferSvc:     deps.TransferSvc,
	}
}

func (h *cardHandlers) CardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *cardHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCardRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	card, err := h.CardSvc.Create(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, card)
}

func (h *cardHandlers) List(w http.ResponseWriter, r *http.Request) {
	cards, err := h.CardSvc.List(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, cards)
}

func (h *cardHandlers) Get(w http.ResponseWriter, r *http.Request) {
	card, err := h.CardSvc.Get(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, card)
}

func (h *cardHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCardRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	card, err := h.CardSvc.Update(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, card)
}

func (h *cardHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.CardSvc.Delete(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.MessageResponse{Message: "Account deleted"})
}

func (h *cardHandlers) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	res, err := h.TransferSvc.Transfer(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}
