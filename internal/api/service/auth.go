package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shortly/shortly-api/internal/api/domain"
	"github.com/shortly/shortly-api/pkg/cryptox"
	"github.com/shortly/shortly-api/pkg/jwtx"
	"github.com/shortly/shortly-api/pkg/slogx"
)

var ErrInvalidCredentials = errors.New("invalid_credentials")

// AuthService orchestrates login and registration.
type AuthService struct {
	Users     *UserService
	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration
}

// Login verifies the credentials and issues an access token carrying the
// user's id, email, and roles.
//
// "Unknown email" and "wrong password" stay distinct here so the logs can
// tell them apart, but callers must render both as the same 401; the
// response must never reveal which one happened.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Users.GetByEmailWithHash(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Info("login attempt for unknown email", slog.String("email", email))
			return domain.TokenPair{}, ErrUserNotFound
		}
		return domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Info("login attempt with wrong password", slog.String("user_id", user.ID))
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		// Malformed stored hash is a server fault, not a credential fault.
		return domain.TokenPair{}, err
	}

	claims := jwtx.NewAccessClaims(
		user.ID,
		user.Email,
		domain.RoleStrings(user.Roles),
		s.AccessTTL,
		s.Issuer,
		time.Now(),
	)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	log.Info("login succeeded", slog.String("user_id", user.ID))
	return domain.TokenPair{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.AccessTTL,
	}, nil
}

// Register creates a new user. The existence check is an early exit; the
// store's unique index settles concurrent registrations for the same email.
func (s *AuthService) Register(ctx context.Context, in CreateUserInput) (domain.User, error) {
	log := slogx.FromContext(ctx)

	_, err := s.Users.GetByEmailWithHash(ctx, in.Email)
	switch {
	case err == nil:
		return domain.User{}, ErrEmailTaken
	case errors.Is(err, ErrUserNotFound):
		// Free to proceed.
	default:
		return domain.User{}, err
	}

	user, err := s.Users.Create(ctx, in)
	if err != nil {
		return domain.User{}, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}
