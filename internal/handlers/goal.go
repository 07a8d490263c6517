package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/middleware"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/internal/response"
)

type goalService interface {
	Create(ctx context.Context, uid string, req dto.GoalRequest) (*models.Goal, error)
	Update(ctx context.Context, uid, id string, req dto.GoalRequest) (*models.Goal, error)
	Delete(ctx context.Context, uid, id string) error
	List(ctx context.Context, uid string) (dto.GoalsByPeriod, error)
	ByPeriod(ctx context.Context, uid string, year, month int, category string) ([]dto.GoalView, error)
	Categories(ctx context.Context, uid string) ([]string, error)
}

type goalHandlers struct {
	ResponseHandler response.ResponseHandler
	GoalSvc         goalService
}

func NewGoalHandlers(deps *Deps) *goalHandlers {
	return &goalHandlers{
		ResponseHandler: deps.ResponseHandler,
		GoalSvc:         deps.GoalSvc,
	}
}

func (h *goalHandlers) GoalRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/categories", h.Categories) // must be before /{year}/{month}
	r.Get("/{year}/{month}", h.ByPeriod)
	r.Get("/{year}/{month}/{category}", h.ByPeriod)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *goalHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.GoalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	g, err := h.GoalSvc.Create(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, g)
}

func (h *goalHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.GoalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	g, err := h.GoalSvc.Update(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, g)
}

func (h *goalHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.GoalSvc.Delete(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.MessageResponse{Message: "Goal deleted successfully"})
}

func (h *goalHandlers) List(w http.ResponseWriter, r *http.Request) {
	goals, err := h.GoalSvc.List(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, goals)
}

func (h *goalHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.GoalSvc.Categories(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string][]string{"categories": cats})
}

func (h *goalHandlers) ByPeriod(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("year must be a number"))
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("month must be a number"))
		return
	}
	goals, err := h.GoalSvc.ByPeriod(r.Context(), middleware.UID(r.Context()), year, month, chi.URLParam(r, "category"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, goals)
}
