package store

import (
	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
)

const (
	usersCollection          = "users"
	userEmailsCollection     = "user_emails"
	currenciesCollection     = "currencies"
	cardsCollection          = "cards"
	accountNumbersCollection = "account_numbers"
	transactionsCollection   = "transactions"
	billsCollection          = "bills"
	expensesCollection       = "expenses"
	goalsCollection          = "goals"
)

func userScoped(client *firestore.Client, uid, name string) *firestore.CollectionRef {
	return client.Collection(usersCollection).Doc(uid).Collection(name)
}

// readErr maps a failed document read onto NotFound or Database errors.
func readErr(err error, what string) error {
	if status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError(what + " not found")
	}
	return errs.NewDatabaseError("read", "failed to get "+what, err)
}

func decode[T any](snap *firestore.DocumentSnapshot, what string) (*T, error) {
	var v T
	if err := snap.DataTo(&v); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse "+what+" data", err)
	}
	return &v, nil
}

func decodeAll[T any](docs []*firestore.DocumentSnapshot, what string) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for _, d := range docs {
		v, err := decode[T](d, what)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// txErr keeps typed errors returned from inside a transaction function and
// wraps anything else as a database failure.
func txErr(err error, what string) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case *errs.NotFoundError, *errs.ForbiddenError, *errs.InvalidReferenceError,
		*errs.ValidationError, *errs.InsufficientFundsError, *errs.DatabaseError,
		*errs.UnauthorizedError, *errs.EncryptionError, *errs.ExternalServiceError:
		return err
	}
	return errs.NewDatabaseError("transaction", "failed to "+what, err)
}
