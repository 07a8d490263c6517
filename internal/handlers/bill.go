package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/middleware"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/internal/response"
)

type billService interface {
	Create(ctx context.Context, uid string, req dto.CreateBillRequest) (*models.Bill, error)
	List(ctx context.Context, uid string) ([]*models.Bill, error)
	ListDueSoon(ctx context.Context, uid string) ([]*models.Bill, error)
	Amend(ctx context.Context, uid, id string, req dto.UpdateBillRequest) (*models.Bill, error)
	Delete(ctx context.Context, uid, id string) error
	Pay(ctx context.Context, uid, id string, req dto.PayBillRequest) (*dto.PayBillResult, error)
	RunDueBillSweep(ctx context.Context, now time.Time) (dto.SweepResult, error)
}

type billHandlers struct {
	ResponseHandler response.ResponseHandler
	BillSvc         billService
	clockNow        func() time.Time
}

func NewBillHandlers(deps *Deps) *billHandlers {
	return &billHandlers{
		ResponseHandler: deps.ResponseHandler,
		BillSvc:         deps.BillSvc,
		clockNow:        time.Now,
	}
}

func (h *billHandlers) BillRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Put("/{id}", h.Amend)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/pay", h.Pay)
	return r
}

func (h *billHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBillRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	bill, err := h.BillSvc.Create(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, bill)
}

func (h *billHandlers) List(w http.ResponseWriter, r *http.Request) {
	bills, err := h.BillSvc.List(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, bills)
}

func (h *billHandlers) DueSoon(w http.ResponseWriter, r *http.Request) {
	bills, err := h.BillSvc.ListDueSoon(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, bills)
}

func (h *billHandlers) Amend(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBillRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	bill, err := h.BillSvc.Amend(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, bill)
}

func (h *billHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.BillSvc.Delete(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.MessageResponse{Message: "Bill deleted"})
}

func (h *billHandlers) Pay(w http.ResponseWriter, r *http.Request) {
	var req dto.PayBillRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	res, err := h.BillSvc.Pay(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

// Sweep is called by the scheduler once a day.
func (h *billHandlers) Sweep(w http.ResponseWriter, r *http.Request) {
	res, err := h.BillSvc.RunDueBillSweep(r.Context(), h.clockNow())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}
