package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	// LocalAuth is false when an external identity provider owns credentials.
	LocalAuth bool

	UserSvc        userService
	CurrencySvc    currencyService
	CardSvc        cardService
	TransactionSvc transactionService
	TransferSvc    transferService
	BillSvc        billService
	ExpenseSvc     expenseService
	GoalSvc        goalService
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.NewValidationError("invalid request body")
	}
	return nil
}
