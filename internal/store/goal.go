package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

type goalStore struct {
	client *firestore.Client
}

func NewGoalStore(client *firestore.Client) *goalStore {
	return &goalStore{client: client}
}

func (s *goalStore) collection(uid string) *firestore.CollectionRef {
	return userScoped(s.client, uid, goalsCollection)
}

func (s *goalStore) Create(ctx context.Context, uid string, g *models.Goal) error {
	now := time.Now()
	g.CreatedAt, g.UpdatedAt = now, now
	if _, err := s.collection(uid).Doc(g.GoalID).Create(ctx, g); err != nil {
		return errs.NewDatabaseError("create", "failed to create goal", err)
	}
	return nil
}

func (s *goalStore) Get(ctx context.Context, uid, id string) (*models.Goal, error) {
	snap, err := s.collection(uid).Doc(id).Get(ctx)
	if err != nil {
		return nil, readErr(err, "goal")
	}
	return decode[models.Goal](snap, "goal")
}

func (s *goalStore) Update(ctx context.Context, uid string, g *models.Goal) error {
	g.UpdatedAt = time.Now()
	if _, err := s.collection(uid).Doc(g.GoalID).Set(ctx, g); err != nil {
		return errs.NewDatabaseError("update", "failed to update goal", err)
	}
	return nil
}

func (s *goalStore) Delete(ctx context.Context, uid, id string) error {
	if _, err := s.Get(ctx, uid, id); err != nil {
		return err
	}
	if _, err := s.collection(uid).Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete goal", err)
	}
	return nil
}

// List returns the user's goals, optionally narrowed to one year/month.
// A zero year or month means no filter on that field.
func (s *goalStore) List(ctx context.Context, uid string, year, month int) ([]*models.Goal, error) {
	q := s.collection(uid).Query
	if year != 0 {
		q = q.Where("year", "==", year)
	}
	if month != 0 {
		q = q.Where("month", "==", month)
	}
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list goals", err)
	}
	return decodeAll[models.Goal](docs, "goal")
}
