package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/ledger"
)

const dateLayout = "2006-01-02"

// ledgerStore runs fn as one atomic unit of work.
type ledgerStore interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight).
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, errs.NewValidationError("invalid date format")
}

// asInvalidReference turns a missing referenced entity into an InvalidReference error.
func asInvalidReference(err error, message string) error {
	var nf *errs.NotFoundError
	if errors.As(err, &nf) {
		return errs.NewInvalidReferenceError(message)
	}
	return err
}

func isNotFound(err error) bool {
	var nf *errs.NotFoundError
	return errors.As(err, &nf)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
