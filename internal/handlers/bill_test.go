package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

type stubBillService struct {
	uid, id  string
	payReq   dto.PayBillRequest
	sweptAt  time.Time
	sweepRes dto.SweepResult
	err      error
}

func (s *stubBillService) Create(ctx context.Context, uid string, req dto.CreateBillRequest) (*models.Bill, error) {
	s.uid = uid
	return &models.Bill{BillID: "b1", Name: req.Name}, s.err
}

func (s *stubBillService) List(ctx context.Context, uid string) ([]*models.Bill, error) {
	s.uid = uid
	return nil, s.err
}

func (s *stubBillService) ListDueSoon(ctx context.Context, uid string) ([]*models.Bill, error) {
	s.uid = uid
	return []*models.Bill{{BillID: "b1"}}, s.err
}

func (s *stubBillService) Amend(ctx context.Context, uid, id string, req dto.UpdateBillRequest) (*models.Bill, error) {
	s.uid, s.id = uid, id
	return &models.Bill{BillID: id}, s.err
}

func (s *stubBillService) Delete(ctx context.Context, uid, id string) error {
	s.uid, s.id = uid, id
	return s.err
}

func (s *stubBillService) Pay(ctx context.Context, uid, id string, req dto.PayBillRequest) (*dto.PayBillResult, error) {
	s.uid, s.id, s.payReq = uid, id, req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PayBillResult{Bill: &models.Bill{BillID: id}}, nil
}

func (s *stubBillService) RunDueBillSweep(ctx context.Context, now time.Time) (dto.SweepResult, error) {
	s.sweptAt = now
	return s.sweepRes, s.err
}

func TestBillPay(t *testing.T) {
	svc := &stubBillService{}
	resp := &stubResponseHandler{}
	h := NewBillHandlers(&Deps{ResponseHandler: resp, BillSvc: svc})

	body := `{"bankId":"a1","paymentMethod":"card"}`
	req := httptest.NewRequest(http.MethodPut, "/bills/b1/pay", strings.NewReader(body))
	req = withUID(withChiParams(req, "id", "b1"), "u1")
	h.Pay(httptest.NewRecorder(), req)

	if svc.uid != "u1" || svc.id != "b1" {
		t.Fatalf("unexpected call uid=%q id=%q", svc.uid, svc.id)
	}
	if svc.payReq.AccountID != "a1" || svc.payReq.PaymentMethod != "card" {
		t.Fatalf("unexpected pay request %+v", svc.payReq)
	}
	if resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.writeSuccessStatus)
	}
}

func TestBillPayError(t *testing.T) {
	svc := &stubBillService{err: errs.NewNotFoundError("bill not found")}
	resp := &stubResponseHandler{}
	h := NewBillHandlers(&Deps{ResponseHandler: resp, BillSvc: svc})

	req := httptest.NewRequest(http.MethodPut, "/bills/b1/pay", strings.NewReader(`{"bankId":"a1"}`))
	h.Pay(httptest.NewRecorder(), withUID(withChiParams(req, "id", "b1"), "u1"))

	if !resp.handleErrorCalled || resp.handleError != svc.err {
		t.Fatalf("expected service error, got %v", resp.handleError)
	}
	if resp.writeSuccessCalled {
		t.Fatal("did not expect success")
	}
}

func TestBillDueSoon(t *testing.T) {
	svc := &stubBillService{}
	resp := &stubResponseHandler{}
	h := NewBillHandlers(&Deps{ResponseHandler: resp, BillSvc: svc})

	h.DueSoon(httptest.NewRecorder(), withUID(httptest.NewRequest(http.MethodGet, "/bills-due-soon", nil), "u1"))

	bills, ok := resp.writeSuccessData.([]*models.Bill)
	if !ok || len(bills) != 1 {
		t.Fatalf("expected one bill, got %#v", resp.writeSuccessData)
	}
}

func TestBillSweepUsesClock(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := &stubBillService{sweepRes: dto.SweepResult{Checked: 2, Sent: 2}}
	resp := &stubResponseHandler{}
	h := NewBillHandlers(&Deps{ResponseHandler: resp, BillSvc: svc})
	h.clockNow = func() time.Time { return now }

	h.Sweep(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/internal/sweeps/bill-reminders", nil))

	if !svc.sweptAt.Equal(now) {
		t.Fatalf("expected sweep at %v, got %v", now, svc.sweptAt)
	}
	res, ok := resp.writeSuccessData.(dto.SweepResult)
	if !ok || res.Sent != 2 {
		t.Fatalf("unexpected sweep result %#v", resp.writeSuccessData)
	}
}
