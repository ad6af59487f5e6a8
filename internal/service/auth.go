// Package service contains the business logic behind every GraphQL
// operation.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	graph (GraphQL layer)   → parses arguments, formats errors
//	service (business layer) → identity checks, validation, orchestration
//	store (data layer)       → document reads/writes
//
// Services program against the store.Store interface, not the SQLite
// implementation — tests swap in an in-memory fake, and the resolvers never
// touch the database directly.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/tea-journal/internal/apperror"
	"github.com/sakif/tea-journal/internal/auth"
	"github.com/sakif/tea-journal/internal/model"
	"github.com/sakif/tea-journal/internal/store"
)

// LoginRejectedMessage is the single negative outcome a failed login
// produces. Deliberately vague: it never says whether the id or the
// password was wrong, and it is a normal return value, not an error.
const LoginRejectedMessage = "verify your credentials"

// AlreadyLoggedInMessage is returned when login is called with a request
// that already carries a valid identity — we short-circuit instead of
// minting a second token. Logged, not an error.
const AlreadyLoggedInMessage = "already logged in"

// AuthService handles login and signup.
type AuthService struct {
	store     store.Store
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(st store.Store, tokens *auth.TokenService, passwords *auth.PasswordService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     st,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// LoginResult is the outcome of a login attempt. Exactly one of Token or
// Message is set: Token on success, Message for the non-error negative
// outcomes (wrong credentials, already logged in).
type LoginResult struct {
	Token   string
	Message string
}

// SignupInput carries the signup mutation's arguments.
// Picture is optional; empty means "none supplied".
type SignupInput struct {
	ID       string
	Password string
	Email    string
	Picture  string
}

// Login verifies the caller's credentials and issues a token.
//
// If the request already carries a resolved identity, we short-circuit:
// no new token, no error, one log line. A rejected bearer token does NOT
// block login — the authenticator degrades it to anonymous and the
// credential check proceeds.
func (s *AuthService) Login(ctx context.Context, id, password string) (*LoginResult, error) {
	if userID, err := auth.IdentityFromContext(ctx).Resolve(); err == nil && userID != "" {
		s.logger.Info("login skipped, request already authenticated",
			slog.String("userID", userID))
		return &LoginResult{Message: AlreadyLoggedInMessage}, nil
	}

	doc, found, err := s.store.Get(ctx, store.Users, id)
	if err != nil {
		s.logger.Error("login user lookup failed", slog.String("error", err.Error()))
		return nil, apperror.Authentication("Login auth error")
	}
	if !found {
		return nil, apperror.Validation("User ID not found")
	}

	user := model.UserFromDocument(id, doc)
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Info("login rejected", slog.String("userID", id))
		} else {
			// The comparison could not complete. To the caller this looks the
			// same as a mismatch (no hint about which part was wrong), but
			// internally it is a fault, not a "no".
			s.logger.Error("password comparison fault",
				slog.String("userID", id),
				slog.String("error", err.Error()))
		}
		return &LoginResult{Message: LoginRejectedMessage}, nil
	}

	token, err := s.tokens.Issue(id)
	if err != nil {
		return nil, fmt.Errorf("issuing login token: %w", err)
	}

	return &LoginResult{Token: token}, nil
}

// Signup registers a new user and logs them in.
//
// Unlike login, an already-authenticated signup is a hard error. The
// existence check and the write are two independent store calls with no
// compare-and-set between them — concurrent signups for the same id race,
// and the last write wins.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (string, error) {
	if userID, err := auth.IdentityFromContext(ctx).Resolve(); err == nil && userID != "" {
		return "", apperror.Authentication("Already logged in")
	}

	_, found, err := s.store.Get(ctx, store.Users, in.ID)
	if err != nil {
		return "", fmt.Errorf("signup user lookup: %w", err)
	}
	if found {
		return "", apperror.Validation("User already exists")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("signup password hash: %w", err)
	}

	user := model.User{
		ID:           in.ID,
		Email:        in.Email,
		PasswordHash: hash,
		ProfileImage: in.Picture,
	}
	if err := s.store.Set(ctx, store.Users, in.ID, user.Document()); err != nil {
		return "", fmt.Errorf("signup storing user: %w", err)
	}

	token, err := s.tokens.Issue(in.ID)
	if err != nil {
		return "", fmt.Errorf("issuing signup token: %w", err)
	}

	s.logger.Info("user signed up", slog.String("userID", in.ID))
	return token, nil
}
