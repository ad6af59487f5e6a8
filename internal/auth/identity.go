package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// contextKey is an unexported type for this package's context keys, so no
// other package can read or shadow the identity value.
type contextKey string

const identityKey contextKey = "identity"

// TokenVerifier is what the identity middleware needs from the token layer.
// *TokenService satisfies it; tests substitute counting fakes.
type TokenVerifier interface {
	Verify(tokenStr string) (string, error)
}

// Identity is the lazily resolved caller identity for one request.
//
// LAZY, MEMOIZED RESOLUTION:
// The middleware does NOT verify the bearer token up front. It attaches an
// unresolved Identity to the request context, and the actual verification
// runs inside sync.Once the first time any resolver calls Resolve. Resolvers
// that never need the caller's id (publicTeas, teaBrews) never pay for
// verification, and when several resolvers in one request do need it, they
// all share a single verification and a single log line.
//
// The success and failure paths stay distinct: an anonymous request resolves
// to ("", nil), a failed verification resolves to ("", err). Most call sites
// treat both as anonymous; resolvers that REQUIRE identity surface the
// error as an authentication failure instead.
type Identity struct {
	raw    string // bearer token as presented, "" when none was sent
	tokens TokenVerifier
	logger *slog.Logger

	once   sync.Once
	userID string
	err    error
}

// Resolve returns the verified user id, or ("", nil) for an anonymous
// request, or ("", err) when a presented token failed verification.
// The underlying verification runs at most once per request.
func (id *Identity) Resolve() (string, error) {
	if id == nil {
		// No middleware on this route — treat as anonymous.
		return "", nil
	}

	id.once.Do(func() {
		if id.raw == "" {
			return // anonymous, not an error
		}
		userID, err := id.tokens.Verify(id.raw)
		if err != nil {
			// Logged here, once per request, at the first await.
			id.logger.Warn("bearer token rejected", slog.String("error", err.Error()))
			id.err = err
			return
		}
		id.userID = userID
	})

	return id.userID, id.err
}

// Middleware attaches a lazy Identity to every request's context.
//
// A missing authorization header is not an error — the request proceeds as
// anonymous (logged once at debug). A present-but-bad token is also not an
// error HERE: the failure only materialises when a resolver awaits the
// identity, and only resolvers that require identity turn it into one.
func Middleware(tokens TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r.Header.Get("Authorization"))
			if raw == "" {
				logger.Debug("anonymous request", slog.String("path", r.URL.Path))
			}

			id := &Identity{raw: raw, tokens: tokens, logger: logger}
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the request's Identity.
// Returns nil when the middleware didn't run; Resolve handles that as
// anonymous, so call sites don't need a nil check.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// ContextWithIdentity returns a context carrying a pre-built Identity.
// Test helper — production requests always go through Middleware.
func ContextWithIdentity(ctx context.Context, tokens TokenVerifier, rawToken string, logger *slog.Logger) context.Context {
	id := &Identity{raw: rawToken, tokens: tokens, logger: logger}
	return context.WithValue(ctx, identityKey, id)
}

// bearerToken extracts the credential from an authorization header value.
// Accepts the standard "Bearer <token>" form (scheme case-insensitive) and
// a bare token without a scheme, which some GraphQL clients send.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if rest, ok := cutPrefixFold(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return header
}

// cutPrefixFold is strings.CutPrefix with ASCII case-insensitive matching.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
