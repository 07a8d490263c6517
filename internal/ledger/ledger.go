// Package ledger holds the balance and billing rules shared by every
// money-moving operation. Nothing here touches storage.
package ledger

import (
	"fmt"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

// Convert expresses amount, given in from, in units of to. Rates are relative
// to a common implicit base so only their ratio matters.
func Convert(amount float64, from, to *models.Currency) float64 {
	if from.CurrencyID == to.CurrencyID {
		return amount
	}
	return amount * from.ExchangeRate / to.ExchangeRate
}

// Debit and Credit never check the resulting sign; overdraft is only enforced
// by transfers.
func Debit(card *models.Card, amount float64) {
	card.Balance -= amount
}

func Credit(card *models.Card, amount float64) {
	card.Balance += amount
}

// Apply posts amount to the card according to kind.
func Apply(card *models.Card, kind string, amount float64) error {
	switch kind {
	case models.KindExpense:
		Debit(card, amount)
	case models.KindIncome:
		Credit(card, amount)
	default:
		return errs.NewValidationError(fmt.Sprintf("unknown transaction kind %q", kind))
	}
	return nil
}

// Reverse undoes a posting previously made with Apply(card, kind, amount).
func Reverse(card *models.Card, kind string, amount float64) error {
	switch kind {
	case models.KindExpense:
		Credit(card, amount)
	case models.KindIncome:
		Debit(card, amount)
	default:
		return errs.NewValidationError(fmt.Sprintf("unknown transaction kind %q", kind))
	}
	return nil
}

func ValidKind(kind string) bool {
	return kind == models.KindIncome || kind == models.KindExpense
}
