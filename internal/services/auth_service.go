package services

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/session"
)

var ErrBadCreds = apperr.New(apperr.CodeUnauthorized, "invalid username or password")

// AuthService authenticates accounts and binds the resulting identity to a
// client.
type AuthService struct {
	Users      *repos.UserRepo
	Identities *session.Identities
}

func NewAuthService(users *repos.UserRepo, ids *session.Identities) *AuthService {
	return &AuthService{Users: users, Identities: ids}
}

// Authenticate checks the password and loads the account's characters.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.Identity, error) {
	a, err := s.Users.ByUsername(username)
	if errors.Is(err, sql.ErrNoRows) {
		// unknown usernames cost the same as wrong passwords
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return domain.Identity{}, ErrBadCreds
	}
	if err != nil {
		return domain.Identity{}, storeErr(err, "account")
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(password)) != nil {
		return domain.Identity{}, ErrBadCreds
	}
	chars, err := s.Users.Characters(a.Username)
	if err != nil {
		return domain.Identity{}, storeErr(err, "account")
	}
	id := domain.Identity{Username: a.Username, DisplayName: a.DisplayName, Characters: chars}
	if !id.Valid() {
		return domain.Identity{}, apperr.New(apperr.CodeForbidden, "account has no characters")
	}
	return id, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("storefront-dummy"), bcrypt.MinCost)

// Login replaces whatever identity the client held.
func (s *AuthService) Login(ctx context.Context, clientID, username, password string) (domain.Identity, error) {
	id, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := s.Identities.Bind(ctx, clientID, id); err != nil {
		return domain.Identity{}, apperr.Wrap(apperr.CodeDependency, err, "could not save session")
	}
	return id, nil
}

func (s *AuthService) Logout(ctx context.Context, clientID string) error {
	if err := s.Identities.Unbind(ctx, clientID); err != nil {
		return apperr.Wrap(apperr.CodeDependency, err, "could not clear session")
	}
	return nil
}

// CurrentUser returns the client's identity or nil.
func (s *AuthService) CurrentUser(ctx context.Context, clientID string) (*domain.Identity, error) {
	id, err := s.Identities.Current(ctx, clientID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, err, "could not load session")
	}
	return id, nil
}

// IsAdmin consults the account's stored role; the identity's display fields
// play no part.
func (s *AuthService) IsAdmin(ctx context.Context, id *domain.Identity) (bool, error) {
	if id == nil {
		return false, nil
	}
	role, err := s.Users.Role(id.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeErr(err, "account")
	}
	return role == domain.RoleAdmin, nil
}
