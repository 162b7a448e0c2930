package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/voting_auth/internal/domain"
	"github.com/Skotchmaster/voting_auth/internal/hash"
	"github.com/Skotchmaster/voting_auth/internal/logging"
	"github.com/Skotchmaster/voting_auth/internal/models"
	"github.com/Skotchmaster/voting_auth/internal/mykafka"
	"github.com/Skotchmaster/voting_auth/internal/revocation"
	"github.com/Skotchmaster/voting_auth/internal/tokens"
)

// bcrypt only reads the first 72 bytes of a password.
const maxPasswordBytes = 72

type UserRepo interface {
	CreateUserIfNotExists(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	PromoteToAdmin(ctx context.Context, id uuid.UUID) error
}

type AuthService struct {
	Repo        UserRepo
	Hasher      *hash.Hasher
	Issuer      *tokens.Issuer
	Revocations revocation.Registry
	Events      mykafka.Publisher
}

type LoginResult struct {
	Tokens  *tokens.Pair
	User    *models.User
	IsAdmin bool
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrValidation
	}
	if len(password) > maxPasswordBytes {
		l.Warn("register_error", "status", 400, "reason", "password too long")
		return nil, domain.ErrPasswordTooLong
	}

	pwHash, err := s.Hasher.HashPassword(ctx, password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		IsAdmin:      false,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, err
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, mykafka.EventUserRegistered, user.ID.String(), user.Username)
	return user, nil
}

// Authenticate returns domain.ErrInvalidCredentials for an unknown username and
// for a wrong password alike; both paths pay for one bcrypt comparison.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate")

	user, err := s.Repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if err := s.Hasher.BurnCheck(ctx, password); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.Hasher.CheckPassword(ctx, user.PasswordHash, password); err != nil {
		if errors.Is(err, hash.ErrMismatch) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if s.Hasher.NeedsRehash(user.PasswordHash) {
		if upgraded, err := s.Hasher.HashPassword(ctx, password); err == nil {
			if err := s.Repo.UpdatePasswordHash(ctx, user.ID, upgraded); err != nil {
				l.Warn("rehash_failed", "user_id", user.ID, "error", err)
			} else {
				user.PasswordHash = upgraded
			}
		}
	}
	return user, nil
}

func (s *AuthService) Lookup(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.Repo.GetUserByID(ctx, id)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if strings.TrimSpace(username) == "" || password == "" {
		return nil, domain.ErrValidation
	}

	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
		} else {
			l.Error("login_failed", "status", 500, "error", err)
		}
		return nil, err
	}

	pair, err := s.Issuer.IssuePair(user)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, mykafka.EventUserLoggedIn, user.ID.String(), user.Username)
	return &LoginResult{Tokens: pair, User: user, IsAdmin: user.IsAdmin}, nil
}

// Refresh issues a new access token for verified refresh claims. The user is
// re-read so a privilege change since login is reflected. The refresh token
// itself is neither rotated nor revoked.
func (s *AuthService) Refresh(ctx context.Context, refresh *tokens.Claims) (*tokens.Token, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if refresh.Kind != tokens.KindRefresh {
		return nil, tokens.ErrWrongTokenKind
	}
	id, err := uuid.Parse(refresh.Subject)
	if err != nil {
		return nil, tokens.ErrMalformedToken
	}

	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.Warn("refresh_failed", "status", 404, "user_id", id)
		}
		return nil, err
	}

	access, err := s.Issuer.IssueAccessFor(user, refresh.ID)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, mykafka.EventTokenRefreshed, user.ID.String(), user.Username)
	return access, nil
}

// LogOut revokes the presented access token and the refresh token it is paired
// with. The refresh token's own expiry is not known here, so its entry is kept
// until IssuedAt+RefreshTTL of the access token, which is never earlier.
func (s *AuthService) LogOut(ctx context.Context, access *tokens.Claims) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if access.Kind != tokens.KindAccess {
		return tokens.ErrWrongTokenKind
	}

	if err := s.Revocations.Revoke(ctx, access.ID, access.Expiry()); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke access token", "error", err)
		return err
	}
	if access.RefreshID != "" {
		refreshExp := access.Issued().Add(s.Issuer.RefreshTTL)
		if err := s.Revocations.Revoke(ctx, access.RefreshID, refreshExp); err != nil {
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
			return err
		}
	}

	s.publish(ctx, mykafka.EventUserLoggedOut, access.Subject, "")
	return nil
}

// EnsureAdmin creates username as an administrator, or promotes it when it
// already exists and the password matches.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	user, err := s.Register(ctx, username, password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConflict):
		user, err = s.Authenticate(ctx, username, password)
		if err != nil {
			return fmt.Errorf("bootstrap admin %q: %w", username, err)
		}
	default:
		return fmt.Errorf("bootstrap admin %q: %w", username, err)
	}
	if user.IsAdmin {
		return nil
	}
	return s.Repo.PromoteToAdmin(ctx, user.ID)
}

func (s *AuthService) publish(ctx context.Context, eventType, userID, username string) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	event := mykafka.Event{
		Type:     eventType,
		UserID:   userID,
		Username: username,
		At:       time.Now().UTC(),
	}
	if err := s.Events.PublishEvent(pubCtx, event); err != nil {
		logging.FromContext(ctx).Warn("kafka_publish_failed", "type", eventType, "error", err)
	}
}
