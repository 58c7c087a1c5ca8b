package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/repvision/repvision-api/internal/auth"
	"github.com/repvision/repvision-api/internal/store"
	"github.com/repvision/repvision-api/internal/store/model"
)

// TokenIssuer mints bearer tokens for authenticated users.
type TokenIssuer interface {
	IssueToken(email string, expiration time.Duration) (string, error)
}

type UserService struct {
	store         store.Store
	issuer        TokenIssuer
	jwtExpiration time.Duration
}

func NewUserService(store store.Store, issuer TokenIssuer, jwtExpiration time.Duration) *UserService {
	return &UserService{
		store:         store,
		issuer:        issuer,
		jwtExpiration: jwtExpiration,
	}
}

func (u *UserService) Register(ctx context.Context, fullName, email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := u.store.User().Create(ctx, model.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrEmailTaken(email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	zap.S().Named("user_service").Infow("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (u *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.store.User().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return "", NewErrInvalidCredentials()
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", NewErrInvalidCredentials()
	}

	if u.issuer == nil {
		return "", fmt.Errorf("token issuance is not configured")
	}

	token, err := u.issuer.IssueToken(user.Email, u.jwtExpiration)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// RegisterPushToken stores the caller's push-delivery address. The address
// is replaced wholesale; there is no multi-device support.
func (u *UserService) RegisterPushToken(ctx context.Context, pushToken string) error {
	user, err := currentUser(ctx, u.store)
	if err != nil {
		return err
	}

	if err := u.store.User().UpdatePushToken(ctx, user.ID, pushToken); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return NewErrPushTokenTaken()
		}
		return fmt.Errorf("failed to update push token: %w", err)
	}

	zap.S().Named("user_service").Infow("push token registered", "user_id", user.ID)
	return nil
}

// currentUser resolves the authenticated identity on the context to its
// user row.
func currentUser(ctx context.Context, s store.Store) (*model.User, error) {
	identity := auth.MustHaveUser(ctx)
	user, err := s.User().GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, &ErrResourceNotFound{fmt.Errorf("user %s not found", identity.Email)}
		}
		return nil, err
	}
	return user, nil
}
