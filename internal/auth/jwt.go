// Package auth provides password hashing, JWT issuance/verification, and the
// request-scoped identity resolution used by every resolver.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. Client calls the signup or login mutation with id + password
// 2. Server verifies the password (bcrypt) and issues a JWT access token
// 3. Client sends "Authorization: Bearer <token>" on later requests
// 4. Middleware attaches a lazy Identity to the request context; resolvers
//    that need the caller's id await it, resolvers that don't never pay for
//    token verification
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't store session data.
// Everything needed (subject, issuer, audience, expiry) is inside the signed
// token, and the HMAC signature ensures nobody can tamper with it without
// the secret key.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the validity window of every issued token: one week from
// issuance. Expiry is the only way a token stops being valid — there is no
// revocation list.
const TokenTTL = 7 * 24 * time.Hour

// Token verification failure modes. Each is deliberate:
//
//   - ErrTokenInvalid: bad signature, wrong algorithm, wrong issuer or
//     audience, garbage input.
//   - ErrTokenExpired: signature and claims check out, but expiresAt has
//     passed.
//   - ErrTokenUnexpirable: the expiration claim is absent entirely. A token
//     that can never expire is rejected even when its signature verifies —
//     this is its own failure, not merely "invalid".
var (
	ErrTokenInvalid     = errors.New("auth: invalid token")
	ErrTokenExpired     = errors.New("auth: token expired")
	ErrTokenUnexpirable = errors.New("auth: token has no expiration")
)

// TokenService issues and verifies HS256-signed identity tokens.
//
// Secret, issuer, and audience are explicit constructor inputs — never read
// from ambient global state — so tests and multiple deployments can hold
// differently configured instances side by side.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenService creates a TokenService.
// The secret should be at least 32 bytes of random data in production
// (e.g. JWT_SECRET=$(openssl rand -hex 32)); anything under 16 characters
// is rejected outright.
func NewTokenService(secret, issuer, audience string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}, nil
}

// claims is the JWT payload. jwt.RegisteredClaims carries the standard
// fields: Subject ("sub") holds the user id.
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs a token for the given subject (user id).
// The expiration claim is always set, computed here at issuance.
func (s *TokenService) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, TokenTTL)
}

// IssueWithTTL creates a token with a custom validity window.
// Used by tests to mint already-expired tokens; production code goes
// through Issue.
func (s *TokenService) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and verifies a token string, returning its subject.
//
// CHECKS:
//   - Signature is valid and the algorithm is HS256 — jwt.WithValidMethods
//     prevents algorithm-confusion attacks (an attacker sending alg "none")
//   - Issuer and audience match this service's configuration
//   - An expiration claim is PRESENT (jwt.WithExpirationRequired) and has
//     not passed
//   - The subject is non-empty
//
// Failures map onto the three sentinels above; callers dispatch with
// errors.Is.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			// Signed fine, but carries no expiry — its own rejection.
			return "", fmt.Errorf("%w: %w", ErrTokenUnexpirable, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", fmt.Errorf("%w: %w", ErrTokenExpired, err)
		default:
			return "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
		}
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("%w: unreadable claims", ErrTokenInvalid)
	}

	if c.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrTokenInvalid)
	}

	return c.Subject, nil
}
