package ledger

import (
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

// Tx is a unit of work over the documents a money movement touches. All reads
// must happen before the first write; implementations commit every write
// together or none of them.
type Tx interface {
	Card(id string) (*models.Card, error)
	CardByNumber(uid, accountNumber string) (*models.Card, error)
	Currency(id string) (*models.Currency, error)
	Transaction(id string) (*models.Transaction, error)
	Bill(uid, id string) (*models.Bill, error)
	// LinkedExpense returns nil, nil when no expense references txID.
	LinkedExpense(uid, txID string) (*models.Expense, error)

	PutCard(card *models.Card) error
	PutTransaction(t *models.Transaction) error
	DeleteTransaction(id string) error
	PutBill(uid string, b *models.Bill) error
	DeleteBill(uid, id string) error
	PutExpense(uid string, e *models.Expense) error
	DeleteExpense(uid, id string) error
}
