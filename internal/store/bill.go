package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

type billStore struct {
	client *firestore.Client
}

func NewBillStore(client *firestore.Client) *billStore {
	return &billStore{client: client}
}

func (s *billStore) collection(uid string) *firestore.CollectionRef {
	return userScoped(s.client, uid, billsCollection)
}

func (s *billStore) Get(ctx context.Context, uid, id string) (*models.Bill, error) {
	snap, err := s.collection(uid).Doc(id).Get(ctx)
	if err != nil {
		return nil, readErr(err, "bill")
	}
	return decode[models.Bill](snap, "bill")
}

// List returns the user's bills by ascending due date.
func (s *billStore) List(ctx context.Context, uid string) ([]*models.Bill, error) {
	docs, err := s.collection(uid).OrderBy("dueDate", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list bills", err)
	}
	return decodeAll[models.Bill](docs, "bill")
}

// EachDue walks active bills of every user due at or before cutoff.
func (s *billStore) EachDue(ctx context.Context, cutoff time.Time, fn func(*models.Bill) error) error {
	iter := s.client.CollectionGroup(billsCollection).
		Where("isActive", "==", true).
		Where("dueDate", "<=", cutoff).
		OrderBy("dueDate", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to query due bills", err)
		}
		b, err := decode[models.Bill](doc, "bill")
		if err != nil {
			return err
		}
		if err := fn(b); err != nil {
			return err
		}
	}
}
