// Package account owns identities: registration, credentials, user profiles
// and the worker and hospital profile extensions.
package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/protomem/medicall/internal/auth"
	"github.com/protomem/medicall/internal/model"
)

type Deps struct {
	Users     UserStore
	Workers   WorkerProfileStore
	Hospitals HospitalProfileStore
	Tokens    TokenStore
	Pictures  PictureStorage
	Issuer    *auth.Issuer
}

type Service struct {
	logger *slog.Logger
	deps   Deps
}

func NewService(logger *slog.Logger, deps Deps) *Service {
	return &Service{
		logger: logger.With("service", "account"),
		deps:   deps,
	}
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	Role            string
	FirstName       string
	LastName        string
	PhoneNumber     *string
	Address         *string
	City            *string
	State           *string
	ZipCode         *string
	Country         *string
}

// Session is what register and login hand back to the client.
type Session struct {
	User   model.User `json:"user"`
	Access string     `json:"access"`
	// Refresh is returned once; logout blacklists it.
	Refresh string `json:"refresh"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if in.Password != in.PasswordConfirm {
		return Session{}, model.NewValidationError("password fields didn't match")
	}

	role := model.RoleWorker
	if in.Role != "" {
		parsed, err := model.ParseRole(in.Role)
		if err != nil {
			return Session{}, model.NewValidationError("%s", err.Error())
		}
		role = parsed
	}
	if role == model.RoleAdmin {
		return Session{}, model.NewValidationError("admin accounts cannot be self-registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}

	country := in.Country
	if country == nil {
		us := "US"
		country = &us
	}

	id, err := s.deps.Users.Insert(ctx, model.InsertUserDTO{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		PhoneNumber:  in.PhoneNumber,
		Address:      in.Address,
		City:         in.City,
		State:        in.State,
		ZipCode:      in.ZipCode,
		Country:      country,
	})
	if err != nil {
		return Session{}, err
	}

	user, err := s.deps.Users.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}

	s.logger.Info("user registered", "userId", user.ID, "userType", user.Role)

	return s.session(user)
}

func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := s.deps.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return Session{}, model.ErrInvalidCredentials
		}
		return Session{}, err
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, model.ErrInvalidCredentials
	}

	if !user.IsActive {
		return Session{}, model.ErrInactive
	}

	return s.session(user)
}

func (s *Service) session(user model.User) (Session, error) {
	pair, err := s.deps.Issuer.IssuePair(user)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Access: pair.Access, Refresh: pair.Refresh}, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refresh string) (string, error) {
	claims, err := s.deps.Issuer.Parse(refresh, auth.TokenRefresh)
	if err != nil {
		return "", err
	}

	revoked, err := s.deps.Tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", model.NewError("token", model.ErrInvalidToken)
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return "", err
	}

	return s.deps.Issuer.Issue(user, auth.TokenAccess)
}

// Logout blacklists the refresh token until it would have expired anyway.
// A token that is already blacklisted is invalid.
func (s *Service) Logout(ctx context.Context, refresh string) error {
	claims, err := s.deps.Issuer.Parse(refresh, auth.TokenRefresh)
	if err != nil {
		return err
	}

	revoked, err := s.deps.Tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return model.NewError("token", model.ErrInvalidToken)
	}

	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.deps.Tokens.Revoke(ctx, claims.ID, claims.UserID, expiresAt); err != nil {
		return err
	}

	s.logger.Debug("refresh token revoked", "userId", claims.UserID, "jti", claims.ID)

	return nil
}

// Authenticate resolves an access token to the caller it was issued for.
func (s *Service) Authenticate(ctx context.Context, access string) (model.Caller, error) {
	claims, err := s.deps.Issuer.Parse(access, auth.TokenAccess)
	if err != nil {
		return model.Caller{}, err
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return model.Caller{}, err
	}

	return model.Caller{ID: user.ID, Role: user.Role}, nil
}

func (s *Service) activeUser(ctx context.Context, id model.ID) (model.User, error) {
	user, err := s.deps.Users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.NewError("user", model.ErrInvalidToken)
		}
		return model.User{}, err
	}
	if !user.IsActive {
		return model.User{}, model.NewError("user", model.ErrInvalidToken)
	}
	return user, nil
}
