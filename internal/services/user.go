package services

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/ledger-backend/internal/auth"
	"github.com/GregMSThompson/ledger-backend/internal/crypto"
	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, uid string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User, previousEmail string) error
}

type tokenIssuer interface {
	IssueLogin(uid, email string) (string, error)
	IssueReset(uid, email, passwordHash string) (string, error)
	VerifyReset(token string) (*auth.Claims, error)
}

type resetMailer interface {
	PasswordReset(ctx context.Context, to, name, token string, ttl time.Duration) error
}

type userService struct {
	store    userStore
	tokens   tokenIssuer
	mailer   resetMailer
	resetTTL time.Duration
}

func NewUserService(store userStore, tokens tokenIssuer, mailer resetMailer, resetTTL time.Duration) *userService {
	return &userService{
		store:    store,
		tokens:   tokens,
		mailer:   mailer,
		resetTTL: resetTTL,
	}
}

// Register creates a profile. With an empty uid the account is local and a
// password is required; otherwise uid comes from an external identity
// provider that owns the credentials.
func (s *userService) Register(ctx context.Context, uid string, req dto.RegisterRequest) (*models.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.NewValidationError("name is required")
	}

	user := &models.User{
		UID:         uid,
		Name:        name,
		Email:       email,
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		Image:       req.Image,
		IsActive:    true,
	}
	if uid == "" {
		if req.Password == "" {
			return nil, errs.NewValidationError("password is required")
		}
		hash, err := crypto.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.UID = uuid.New().String()
		user.PasswordHash = hash
	}

	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("user registered", "uid", user.UID)
	return user, nil
}

func (s *userService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	log := logger.FromContext(ctx)
	user, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if isNotFound(err) {
		return nil, errs.NewUnauthorizedError("invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if !crypto.CheckPassword(user.PasswordHash, req.Password) {
		log.Info("login rejected", "uid", user.UID)
		return nil, errs.NewUnauthorizedError("invalid email or password")
	}
	if !user.IsActive {
		return nil, errs.NewUnauthorizedError("account is deactivated")
	}

	token, err := s.tokens.IssueLogin(user.UID, user.Email)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: user}, nil
}

func (s *userService) Get(ctx context.Context, uid string) (*models.User, error) {
	return s.store.Get(ctx, uid)
}

func (s *userService) Update(ctx context.Context, uid string, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.store.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	previousEmail := user.Email

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && *req.Email != "" {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Image != nil {
		user.Image = *req.Image
	}
	if req.Password != nil && *req.Password != "" {
		if crypto.CheckPassword(user.PasswordHash, *req.Password) {
			return nil, errs.NewValidationError("password should not be the same as the old password")
		}
		hash, err := crypto.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.store.Update(ctx, user, previousEmail); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Deactivate(ctx context.Context, uid string) error {
	user, err := s.store.Get(ctx, uid)
	if err != nil {
		return err
	}
	user.IsActive = false
	if err := s.store.Update(ctx, user, user.Email); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("user deactivated", "uid", uid)
	return nil
}

// ForgotPassword mails a short-lived reset token. The token is bound to the
// current password hash so it stops working once the password changes.
func (s *userService) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error {
	user, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return err
	}
	token, err := s.tokens.IssueReset(user.UID, user.Email, user.PasswordHash)
	if err != nil {
		return err
	}
	if err := s.mailer.PasswordReset(ctx, user.Email, user.Name, token, s.resetTTL); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("password reset sent", "uid", user.UID)
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	if req.NewPassword == "" {
		return errs.NewValidationError("newPassword is required")
	}
	claims, err := s.tokens.VerifyReset(req.Token)
	if err != nil {
		return errs.NewValidationError("invalid or expired token")
	}
	user, err := s.store.Get(ctx, claims.Subject)
	if err != nil {
		return err
	}
	if !auth.StampMatches(claims, user.PasswordHash) {
		return errs.NewValidationError("invalid or expired token")
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.store.Update(ctx, user, user.Email); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("password reset", "uid", user.UID)
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", errs.NewValidationError("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", errs.NewValidationError("invalid email address")
	}
	return email, nil
}
