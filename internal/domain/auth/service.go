package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	Store    *Store
	Secret   string
	TokenTTL time.Duration
}

func NewService(store *Store, secret string, tokenTTL time.Duration) *Service {
	return &Service{Store: store, Secret: secret, TokenTTL: tokenTTL}
}

type LoginResult struct {
	Token      string `json:"token"`
	Role       string `json:"role"`
	UserID     int64  `json:"userId"`
	EmployeeID *int64 `json:"employeeId,omitempty"`
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, found, err := s.Store.FindByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}
	if !found {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.Secret, Claims{
		UserID:     user.ID,
		EmployeeID: user.EmployeeID,
		Role:       user.Role,
	}, s.TokenTTL)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("last login update failed", "userId", user.ID, "err", err)
	}

	return LoginResult{
		Token:      token,
		Role:       user.Role,
		UserID:     user.ID,
		EmployeeID: user.EmployeeID,
	}, nil
}
