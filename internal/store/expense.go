package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

type expenseStore struct {
	client *firestore.Client
}

func NewExpenseStore(client *firestore.Client) *expenseStore {
	return &expenseStore{client: client}
}

func (s *expenseStore) collection(uid string) *firestore.CollectionRef {
	return userScoped(s.client, uid, expensesCollection)
}

func (s *expenseStore) Get(ctx context.Context, uid, id string) (*models.Expense, error) {
	snap, err := s.collection(uid).Doc(id).Get(ctx)
	if err != nil {
		return nil, readErr(err, "expense")
	}
	return decode[models.Expense](snap, "expense")
}

func (s *expenseStore) Update(ctx context.Context, uid string, e *models.Expense) error {
	e.UpdatedAt = time.Now()
	if _, err := s.collection(uid).Doc(e.ExpenseID).Set(ctx, e); err != nil {
		return errs.NewDatabaseError("update", "failed to update expense", err)
	}
	return nil
}

// InRange returns expenses dated in [from, to).
func (s *expenseStore) InRange(ctx context.Context, uid string, from, to time.Time) ([]*models.Expense, error) {
	docs, err := s.collection(uid).
		Where("date", ">=", from).
		Where("date", "<", to).
		OrderBy("date", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list expenses", err)
	}
	return decodeAll[models.Expense](docs, "expense")
}

// DeleteByCategory removes every expense in category and returns how many went.
func (s *expenseStore) DeleteByCategory(ctx context.Context, uid, category string) (int, error) {
	log := logger.FromContext(ctx)
	docs, err := s.collection(uid).Where("category", "==", category).Documents(ctx).GetAll()
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to list expenses", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, d := range docs {
		job, err := bw.Delete(d.Ref)
		if err != nil {
			bw.End()
			return 0, errs.NewDatabaseError("delete", "failed to schedule expense delete", err)
		}
		jobs = append(jobs, job)
	}

	// Flush and close the writer, then wait on each job for errors.
	bw.End()
	deleted := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			log.Error("expense delete failed", "error", err)
			continue
		}
		deleted++
	}
	if deleted < len(jobs) {
		return deleted, errs.NewDatabaseError("delete", "failed to delete some expenses", nil)
	}
	return deleted, nil
}
