package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// countingVerifier records how many times Verify runs — used to prove the
// identity is resolved at most once per request.
type countingVerifier struct {
	calls  int
	userID string
	err    error
}

func (c *countingVerifier) Verify(string) (string, error) {
	c.calls++
	return c.userID, c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serveWithIdentity pushes a request with the given authorization header
// through the middleware and hands the attached Identity to check.
func serveWithIdentity(t *testing.T, verifier TokenVerifier, authHeader string, check func(*Identity)) {
	t.Helper()

	mw := Middleware(verifier, discardLogger())
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check(IdentityFromContext(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestResolve_Anonymous(t *testing.T) {
	v := &countingVerifier{userID: "should-not-be-called"}

	serveWithIdentity(t, v, "", func(id *Identity) {
		userID, err := id.Resolve()
		if err != nil {
			t.Errorf("Resolve() error = %v, want nil for anonymous request", err)
		}
		if userID != "" {
			t.Errorf("Resolve() userID = %q, want empty", userID)
		}
	})

	if v.calls != 0 {
		t.Errorf("verifier ran %d times for a request with no token", v.calls)
	}
}

func TestResolve_ValidBearer(t *testing.T) {
	v := &countingVerifier{userID: "u1"}

	serveWithIdentity(t, v, "Bearer some.jwt.token", func(id *Identity) {
		userID, err := id.Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if userID != "u1" {
			t.Errorf("Resolve() userID = %q, want %q", userID, "u1")
		}
	})
}

func TestResolve_LazyAndMemoized(t *testing.T) {
	v := &countingVerifier{userID: "u1"}

	serveWithIdentity(t, v, "Bearer some.jwt.token", func(id *Identity) {
		// Verification must not have run before the first Resolve
		if v.calls != 0 {
			t.Errorf("verifier ran %d times before Resolve()", v.calls)
		}

		// Several resolvers awaiting the same request's identity share one
		// verification
		for range 3 {
			if _, err := id.Resolve(); err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
		}
		if v.calls != 1 {
			t.Errorf("verifier ran %d times, want exactly 1", v.calls)
		}
	})
}

func TestResolve_FailureIsObservableAndMemoized(t *testing.T) {
	wantErr := errors.New("bad signature")
	v := &countingVerifier{err: wantErr}

	serveWithIdentity(t, v, "Bearer tampered.jwt", func(id *Identity) {
		userID, err := id.Resolve()
		if !errors.Is(err, wantErr) {
			t.Errorf("Resolve() error = %v, want %v", err, wantErr)
		}
		if userID != "" {
			t.Errorf("Resolve() userID = %q, want empty on failure", userID)
		}

		// Second await returns the same memoized failure without re-verifying
		if _, err := id.Resolve(); !errors.Is(err, wantErr) {
			t.Errorf("second Resolve() error = %v, want memoized %v", err, wantErr)
		}
	})

	if v.calls != 1 {
		t.Errorf("verifier ran %d times, want exactly 1", v.calls)
	}
}

func TestResolve_NilIdentityIsAnonymous(t *testing.T) {
	// A route without the middleware yields a nil Identity — Resolve must
	// treat that as anonymous, not panic.
	var id *Identity
	userID, err := id.Resolve()
	if err != nil || userID != "" {
		t.Errorf("nil Resolve() = (%q, %v), want (\"\", nil)", userID, err)
	}
}

func TestBearerToken_HeaderForms(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"standard bearer", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi"},
		{"bare token", "abc.def.ghi", "abc.def.ghi"},
		{"padded", "  Bearer abc.def.ghi  ", "abc.def.ghi"},
		{"empty", "", ""},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bearerToken(tt.header); got != tt.want {
				t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
