// Package auth — password hashing utilities.
//
// WHY BCRYPT?
// bcrypt is a password hashing function specifically designed to be slow.
// That slowness is a security feature: it makes brute-force attacks expensive.
//
// bcrypt automatically:
//   - Generates a random salt (so two users with the same password get different hashes)
//   - Embeds the salt and cost in the output hash (no separate columns needed)
//   - Controls the work factor via "cost" (higher = slower = harder to crack)
//
// RANDOMIZED COST:
// This service draws a fresh cost from [MinCost, MaxCost] on every Hash call,
// so even two back-to-back hashes of one plaintext differ in work factor.
// Verification doesn't care: the cost is embedded in the hash, and
// bcrypt.CompareHashAndPassword reads it from there.
package auth

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"golang.org/x/crypto/bcrypt"
)

// Default bounds for the randomized bcrypt cost.
// bcrypt itself allows 4..31; 5..20 keeps the ceiling below "login takes
// minutes" territory while still varying the work factor per hash.
const (
	DefaultMinCost = 5
	DefaultMaxCost = 20
)

// ErrPasswordMismatch is returned by Verify when the comparison completed
// and the password simply did not match. Any other error from Verify means
// the comparison could NOT complete (malformed hash, internal fault) — the
// two must never be conflated, and a fault is never treated as a match.
var ErrPasswordMismatch = errors.New("auth: password mismatch")

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost bounds can be injected —
// tests pin both bounds to bcrypt.MinCost to avoid hundreds of milliseconds
// per hash.
type PasswordService struct {
	minCost int
	maxCost int
}

// NewPasswordService creates a PasswordService with the default cost
// bounds [5, 20].
func NewPasswordService() *PasswordService {
	return &PasswordService{minCost: DefaultMinCost, maxCost: DefaultMaxCost}
}

// NewPasswordServiceWithBounds creates a PasswordService drawing costs from
// [minCost, maxCost]. Use low bounds in tests only.
func NewPasswordServiceWithBounds(minCost, maxCost int) *PasswordService {
	return &PasswordService{minCost: minCost, maxCost: maxCost}
}

// Hash hashes the plaintext with bcrypt at a randomly drawn cost.
//
// The output is self-contained, e.g.:
//
//	$2a$12$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy
//
// Store it directly — it embeds the salt and the cost that was drawn.
// The plaintext is never logged or retained.
//
// Returns an error if the plaintext is too long (>72 bytes — a bcrypt limit;
// bcrypt would silently truncate, so we reject explicitly).
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost())
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
//
// Returns nil on match, ErrPasswordMismatch on a completed-but-false
// comparison, and a different wrapped error when the comparison itself
// failed (e.g. the stored hash is malformed). Callers that need to treat
// "wrong password" and "could not check" the same way to the outside still
// keep them distinguishable internally via errors.Is.
//
// bcrypt.CompareHashAndPassword is constant-time internally, so this is
// safe against timing attacks.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

// cost draws a work factor uniformly from [minCost, maxCost].
func (p *PasswordService) cost() int {
	if p.maxCost <= p.minCost {
		return p.minCost
	}
	return p.minCost + rand.IntN(p.maxCost-p.minCost+1)
}
