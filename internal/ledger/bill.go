package ledger

import (
	"fmt"
	"time"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

const DueSoonHorizon = 24 * time.Hour

// BillPaid is the only paid/unpaid rule: a bill counts as paid for the current
// cycle when it has been charged and its due date has not passed yet.
func BillPaid(lastCharge *time.Time, due, now time.Time) bool {
	return lastCharge != nil && !now.After(due)
}

// IsDueSoon reports whether an active, unpaid bill is due within the horizon.
// Overdue bills are included.
func IsDueSoon(b *models.Bill, now time.Time) bool {
	if !b.IsActive || BillPaid(b.LastCharge, b.DueDate, now) {
		return false
	}
	return !b.DueDate.After(now.Add(DueSoonHorizon))
}

// AdvanceDueDate moves due forward by exactly one period. The day of month is
// clamped to the end of the target month and returns to anchorDay whenever the
// month is long enough, so Jan 31 -> Feb 29 -> Mar 31.
func AdvanceDueDate(due time.Time, frequency string, anchorDay int) (time.Time, error) {
	if anchorDay < 1 || anchorDay > 31 {
		anchorDay = due.Day()
	}

	year, month := due.Year(), due.Month()
	switch frequency {
	case models.FrequencyMonthly:
		month++
		if month > time.December {
			month = time.January
			year++
		}
	case models.FrequencyYearly:
		year++
	default:
		return time.Time{}, errs.NewValidationError(fmt.Sprintf("unknown bill frequency %q", frequency))
	}

	day := min(anchorDay, daysIn(year, month, due.Location()))
	return time.Date(year, month, day, due.Hour(), due.Minute(), due.Second(), due.Nanosecond(), due.Location()), nil
}

func ValidFrequency(frequency string) bool {
	return frequency == models.FrequencyMonthly || frequency == models.FrequencyYearly
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
