package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shortly/shortly-api/internal/api/domain"
	"github.com/shortly/shortly-api/internal/api/store"
	"github.com/shortly/shortly-api/pkg/cryptox"
	"github.com/shortly/shortly-api/pkg/idx"
)

var (
	ErrUserNotFound = errors.New("user_not_found")
	ErrEmailTaken   = errors.New("email_taken")
)

// UserService is the user directory: persistence-backed lookup and creation
// of user records. Every write path goes through the credential hasher; read
// paths hand out hash-free projections unless the caller explicitly asks for
// the privileged one.
type UserService struct {
	Store store.Store
}

// CreateUserInput carries a registration into the directory. Password is
// plaintext here and nowhere else; it is hashed before it touches the store.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Roles    []domain.Role
}

// Create hashes the password and inserts the user. The email unique index is
// the authority on duplicates; ErrEmailTaken surfaces regardless of whether
// the caller pre-checked.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (domain.User, error) {
	roles := in.Roles
	if len(roles) == 0 {
		roles = domain.DefaultRoles()
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Roles:        roles,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	created, err := s.Store.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, err
	}
	return created.WithoutHash(), nil
}

// GetByID fetches a user by id, hash excluded.
func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user.WithoutHash(), nil
}

// GetByEmailWithHash is the privileged projection. Only the login
// verification path should call this.
func (s *UserService) GetByEmailWithHash(ctx context.Context, email string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdatePassword re-hashes unconditionally. There is no partial-update path,
// so "did the password actually change" never needs answering here.
func (s *UserService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
