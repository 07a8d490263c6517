package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/pkg/helpers"
)

type stubUsers map[string]*models.User

func (s stubUsers) Get(_ context.Context, uid string) (*models.User, error) {
	u, ok := s[uid]
	if !ok {
		return nil, errs.NewNotFoundError("user not found")
	}
	return u, nil
}

type stubNotifier struct {
	sent   []string
	failOn string
}

func (n *stubNotifier) BillReminder(_ context.Context, to, _ string, bill *models.Bill, _ time.Time) error {
	if bill.BillID == n.failOn {
		return errors.New("mail down")
	}
	n.sent = append(n.sent, to+":"+bill.BillID)
	return nil
}

var billNow = time.Date(2024, 1, 30, 10, 0, 0, 0, time.UTC)

func newBillFixture() (*fakeLedger, *billService, *stubNotifier) {
	l := newFakeLedger()
	l.addCurrency("usd", "USD", 1)
	l.addCurrency("eur", "EUR", 1.1)
	l.addCard("acc", "u1", "111", "usd", 500)
	l.addCard("foreign", "u2", "222", "usd", 500)
	n := &stubNotifier{}
	users := stubUsers{
		"u1": {UID: "u1", Email: "one@example.com", Name: "One", IsActive: true},
		"u2": {UID: "u2", Email: "two@example.com", Name: "Two", IsActive: true},
	}
	svc := NewBillService(l, &fakeBillStore{l: l}, users, n)
	svc.clockNow = fixedClock(billNow)
	return l, svc, n
}

func createBill(t *testing.T, svc *billService, req dto.CreateBillRequest) *models.Bill {
	t.Helper()
	if req.Name == "" {
		req.Name = "Rent"
	}
	if req.Amount == 0 {
		req.Amount = 100
	}
	if req.CurrencyID == "" {
		req.CurrencyID = "usd"
	}
	if req.Frequency == "" {
		req.Frequency = models.FrequencyMonthly
	}
	b, err := svc.Create(helpers.TestCtx(), "u1", req)
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}
	return b
}

func TestBillCreate_UnpaidWritesPendingPlaceholder(t *testing.T) {
	l, svc, _ := newBillFixture()

	b := createBill(t, svc, dto.CreateBillRequest{DueDate: "2024-01-31"})

	if b.AnchorDay != 31 || b.TransactionID == "" || b.IsPaid {
		t.Fatalf("unexpected bill %+v", b)
	}
	p := l.transactions[b.TransactionID]
	if p.Status != models.StatusPending || p.Counterparty != "Bill (Unpaid)" || p.Posted() {
		t.Fatalf("unexpected placeholder %+v", p)
	}
	if !p.Date.Equal(b.DueDate) {
		t.Fatalf("placeholder date %v, want due date %v", p.Date, b.DueDate)
	}
	if l.balance("acc") != 500 {
		t.Fatal("placeholder must not move balances")
	}
}

func TestBillCreate_PaidWritesSettledPlaceholder(t *testing.T) {
	l, svc, _ := newBillFixture()

	b := createBill(t, svc, dto.CreateBillRequest{DueDate: "2024-02-15", IsPaid: true, LastCharge: "2024-01-15"})

	if !b.IsPaid || !b.CreatedPaid {
		t.Fatalf("bill should be paid, got %+v", b)
	}
	p := l.transactions[b.TransactionID]
	if p.Status != models.StatusPaid || p.Counterparty != "Bill Payment" || !strings.HasPrefix(p.Receipt, "RCPT-") {
		t.Fatalf("unexpected placeholder %+v", p)
	}
}

func TestBillCreate_FrequencyDefaultsToMonthly(t *testing.T) {
	_, svc, _ := newBillFixture()

	b, err := svc.Create(helpers.TestCtx(), "u1", dto.CreateBillRequest{Name: "Gym", Amount: 30, CurrencyID: "usd", DueDate: "2024-02-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Frequency != models.FrequencyMonthly {
		t.Fatalf("frequency = %q, want %q", b.Frequency, models.FrequencyMonthly)
	}

	_, err = svc.Create(helpers.TestCtx(), "u1", dto.CreateBillRequest{Name: "Gym", Amount: 30, CurrencyID: "usd", DueDate: "2024-02-10", Frequency: "weekly"})
	if !isValidation(err) {
		t.Fatalf("unknown frequency: expected ValidationError, got %v", err)
	}
}

func TestBillCreate_UnknownCurrency(t *testing.T) {
	l, svc, _ := newBillFixture()
	_, err := svc.Create(helpers.TestCtx(), "u1", dto.CreateBillRequest{Name: "x", Amount: 1, DueDate: "2024-02-01", CurrencyID: "nope", Frequency: models.FrequencyMonthly})
	if !isInvalidReference(err) {
		t.Fatalf("expected InvalidReferenceError, got %v", err)
	}
	if len(l.bills) != 0 || len(l.transactions) != 0 {
		t.Fatal("nothing should be written")
	}
}

func TestBillPay_SettlesPlaceholderAndAdvances(t *testing.T) {
	l, svc, _ := newBillFixture()
	b := createBill(t, svc, dto.CreateBillRequest{DueDate: "2024-01-31", CurrencyID: "eur", Amount: 100})
	placeholderID := b.TransactionID

	res, err := svc.Pay(helpers.TestCtx(), "u1", b.BillID, dto.PayBillRequest{AccountID: "acc", PaymentMethod: "card"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := l.balance("acc"); !approx(got, 500-110) {
		t.Fatalf("balance = %v, want %v", got, 500-110.0)
	}
	if res.Transaction.TransactionID != placeholderID {
		t.Fatal("pending placeholder should be settled in place")
	}
	settled := l.transactions[placeholderID]
	if settled.Status != models.StatusPaid || settled.AccountID != "acc" || !approx(settled.LedgerAmount, 110) {
		t.Fatalf("unexpected settled transaction %+v", settled)
	}
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if !res.Bill.DueDate.Equal(want) {
		t.Fatalf("due date = %v, want %v", res.Bill.DueDate, want)
	}
	if !res.Bill.IsPaid {
		t.Fatal("bill should be paid for the cycle")
	}
	if len(l.transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(l.transactions))
	}
}

func TestBillPay_SecondCycleRecordsNewTransaction(t *testing.T) {
	l, svc, _ := newBillFixture()
	b := createBill(t, svc, dto.CreateBillRequest{DueDate: "2024-01-31"})

	first, err := svc.Pay(helpers.TestCtx(), "u1", b.BillID, dto.PayBillRequest{AccountID: "acc"})
	if err != nil {
		t.Fatalf("first pay: %v", err)
	}
	second, err := svc.Pay(helpers.TestCtx(), "u1", b.BillID, dto.PayBillRequest{AccountID: "acc"})
	if err != nil {
		t.Fatalf("second pay: %v", err)
	}

	if second.Transaction.TransactionID == first.Transaction.TransactionID {
		t.Fatal("settled transaction must not be reused")
	}
	if l.bills[scopedKey("u1", b.BillID)].TransactionID != second.Transaction.TransactionID {
		t.Fatal("bill should link the newest payment")
	}
	want := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	if !second.Bill.DueDate.Equal(want) {
		t.Fatalf("due date = %v, want %v", second.Bill.DueDate, want)
	}
	if l.balance("acc") != 300 || len(l.transactions) != 2 {
		t.Fatalf("balance=%v transactions=%d", l.balance("acc"), len(l.transactions))
	}
}

func TestBillPay_Rejections(t *testing.T) {
	l, svc, _ := newBillFixture()
	b := createBill(t, svc, dto.CreateBillRequest{DueDate: "2024-01-31"})
	inactive := createBill(t, svc, dto.CreateBillRequest{DueDate: "2024-01-31", IsActive: helpers.Ptr(false)})

	if _, err := svc.Pay(helpers.TestCtx(), "u1", b.BillID, dto.PayBillRequest{AccountID: "foreign"}); !isInvalidReference(err) {
		t.Fatalf("foreign account: expected InvalidReferenceError, got %v", err)
	}
	if _, err := svc.Pay(helpers.TestCtx(), "u1", inactive.BillID, dto.PayBillRequest{AccountID: "acc"}); !isValidation(err) {
		t.Fatalf("inactive bill: expected ValidationError, got %v", err)
	}
	if _, err := svc.Pay(helpers.TestCtx(), "u1", "missing", dto.PayBillRequest{AccountID: "acc"}); !isNotFound(err) {
		t.Fatalf("missing bill: expected NotFoundError, got %v", err)
	}
	if l.balance("acc") != 500 || l.balance("foreign") != 500 {
		t.Fatal("balances changed")
	}
}

func TestBillYearlyLeapDay(t *testing.T) {
	_, svc, _ := newBillFixture()
	b := createBill(t, svc, dto.CreateBillRequest{DueDate: "2024-02-29", Frequency: models.FrequencyYearly})

	res, err := svc.Pay(helpers.TestCtx(), "u1", b.BillID, dto.PayBillRequest{AccountID: "acc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	if !res.Bill.DueDate.Equal(want) {
		t.Fatalf("due date = %v, want %v", res.Bill.DueDate, want)
	}
}

func TestListDueSoon(t *testing.T) {
	_, svc, _ := newBillFixture()
	rfc := func(d time.Duration) string { return billNow.Add(d).Format(time.RFC3339) }

	overdue := createBill(t, svc, dto.CreateBillRequest{Name: "overdue", DueDate: rfc(-2 * time.Hour)})
	soon := createBill(t, svc, dto.CreateBillRequest{Name: "soon", DueDate: rfc(10 * time.Hour)})
	createBill(t, svc, dto.CreateBillRequest{Name: "later", DueDate: rfc(48 * time.Hour)})
	createBill(t, svc, dto.CreateBillRequest{Name: "paid", DueDate: rfc(5 * time.Hour), IsPaid: true})
	createBill(t, svc, dto.CreateBillRequest{Name: "inactive", DueDate: rfc(time.Hour), IsActive: helpers.Ptr(false)})

	got, err := svc.ListDueSoon(helpers.TestCtx(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].BillID != overdue.BillID || got[1].BillID != soon.BillID {
		names := make([]string, 0, len(got))
		for _, b := range got {
			names = append(names, b.Name)
		}
		t.Fatalf("due soon = %v, want [overdue soon]", names)
	}
}

func TestBillAmend_SyncsPendingPlaceholder(t *testing.T) {
	l, svc, _ := newBillFixture()
	b := createBill(t, svc, dto.CreateBillRequest{DueDate: "2024-02-10"})

	updated, err := svc.Amend(helpers.TestCtx(), "u1", b.BillID, dto.UpdateBillRequest{
		Amount:  helpers.Ptr(120.0),
		DueDate: helpers.Ptr("2024-02-20"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.AnchorDay != 20 {
		t.Fatalf("anchor day = %d, want 20", updated.AnchorDay)
	}
	p := l.transactions[b.TransactionID]
	if p.Amount != 120 || p.Date.Day() != 20 {
		t.Fatalf("placeholder not synced: %+v", p)
	}
}

func TestBillDelete_RemovesPendingPlaceholder(t *testing.T) {
	l, svc, _ := newBillFixture()
	b := createBill(t, svc, dto.CreateBillRequest{DueDate: "2024-02-10"})

	if err := svc.Delete(helpers.TestCtx(), "u1", b.BillID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.bills) != 0 || len(l.transactions) != 0 {
		t.Fatalf("bills=%d transactions=%d", len(l.bills), len(l.transactions))
	}
}

func TestRunDueBillSweep(t *testing.T) {
	l, svc, n := newBillFixture()
	rfc := func(d time.Duration) string { return billNow.Add(d).Format(time.RFC3339) }

	a := createBill(t, svc, dto.CreateBillRequest{Name: "a", DueDate: rfc(-time.Hour)})
	failing := createBill(t, svc, dto.CreateBillRequest{Name: "b", DueDate: rfc(3 * time.Hour)})
	createBill(t, svc, dto.CreateBillRequest{Name: "c", DueDate: rfc(72 * time.Hour)})
	createBill(t, svc, dto.CreateBillRequest{Name: "d", DueDate: rfc(time.Hour), IsPaid: true})

	// a bill whose owner no longer exists
	orphan := l.bills[scopedKey("u1", a.BillID)]
	orphan.BillID, orphan.UserID = "orphan", "ghost"
	l.bills[scopedKey("ghost", "orphan")] = orphan

	n.failOn = failing.BillID
	res, err := svc.RunDueBillSweep(helpers.TestCtx(), billNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Checked != 3 || res.Sent != 1 || res.Failed != 2 {
		t.Fatalf("sweep result = %+v", res)
	}
	if len(n.sent) != 1 || n.sent[0] != "one@example.com:"+a.BillID {
		t.Fatalf("sent = %v", n.sent)
	}
}

func TestRunDueBillSweep_StoreError(t *testing.T) {
	l := newFakeLedger()
	svc := NewBillService(l, &fakeBillStore{l: l, eachErr: errs.NewDatabaseError("read", "boom", nil)}, stubUsers{}, &stubNotifier{})
	if _, err := svc.RunDueBillSweep(helpers.TestCtx(), billNow); err == nil {
		t.Fatal("expected error")
	}
}
