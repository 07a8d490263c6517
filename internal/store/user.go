package store

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
)

type encrypter interface {
	KmsEncrypt(ctx context.Context, plaintext string) (string, error)
	KmsDecrypt(ctx context.Context, ciphertext string) (string, error)
}

// emailIndex documents are keyed by the normalised email and make
// registration unique without a query.
type emailIndex struct {
	UID string `firestore:"uid"`
}

type userStore struct {
	client *firestore.Client
	crypto encrypter
}

func NewUserStore(client *firestore.Client, crypto encrypter) *userStore {
	return &userStore{client: client, crypto: crypto}
}

func (s *userStore) users() *firestore.CollectionRef {
	return s.client.Collection(usersCollection)
}

func (s *userStore) emailDoc(email string) *firestore.DocumentRef {
	return s.client.Collection(userEmailsCollection).Doc(NormalizeEmail(email))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create writes the user and claims its email in one transaction.
func (s *userStore) Create(ctx context.Context, user *models.User) error {
	if err := s.seal(ctx, user); err != nil {
		return err
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := s.claimEmail(tx, user.Email, user.UID); err != nil {
			return err
		}
		return tx.Create(s.users().Doc(user.UID), user)
	})
	return txErr(err, "create user")
}

func (s *userStore) Get(ctx context.Context, uid string) (*models.User, error) {
	snap, err := s.users().Doc(uid).Get(ctx)
	if err != nil {
		return nil, readErr(err, "user")
	}
	user, err := decode[models.User](snap, "user")
	if err != nil {
		return nil, err
	}
	return user, s.open(ctx, user)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	snap, err := s.emailDoc(email).Get(ctx)
	if err != nil {
		return nil, readErr(err, "user")
	}
	idx, err := decode[emailIndex](snap, "user email")
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, idx.UID)
}

// Update overwrites the user. When the email changed the index moves with it.
func (s *userStore) Update(ctx context.Context, user *models.User, previousEmail string) error {
	if err := s.seal(ctx, user); err != nil {
		return err
	}
	user.UpdatedAt = time.Now()

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if NormalizeEmail(previousEmail) != NormalizeEmail(user.Email) {
			if err := s.claimEmail(tx, user.Email, user.UID); err != nil {
				return err
			}
			if err := tx.Delete(s.emailDoc(previousEmail)); err != nil {
				return err
			}
		}
		return tx.Set(s.users().Doc(user.UID), user)
	})
	return txErr(err, "update user")
}

func (s *userStore) claimEmail(tx *firestore.Transaction, email, uid string) error {
	ref := s.emailDoc(email)
	_, err := tx.Get(ref)
	switch {
	case err == nil:
		return errs.NewValidationError("email is already registered")
	case status.Code(err) != codes.NotFound:
		return errs.NewDatabaseError("read", "failed to check email", err)
	}
	return tx.Create(ref, emailIndex{UID: uid})
}

func (s *userStore) seal(ctx context.Context, user *models.User) error {
	enc, err := s.crypto.KmsEncrypt(ctx, user.PhoneNumber)
	if err != nil {
		return err
	}
	user.PhoneCipher = enc
	return nil
}

func (s *userStore) open(ctx context.Context, user *models.User) error {
	plain, err := s.crypto.KmsDecrypt(ctx, user.PhoneCipher)
	if err != nil {
		return err
	}
	user.PhoneNumber = plain
	return nil
}
