package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/tea-journal/internal/auth"
	"github.com/sakif/tea-journal/internal/store"
)

// fakeStore is an in-memory implementation of store.Store.
// A hand-written fake (not a mock framework) keeps tests dependency-free
// and easy to read. The err fields let a test simulate store failures that
// would be hard to trigger with the real database.
type fakeStore struct {
	collections map[string]map[string]store.Document
	nextID      int

	getErr   error
	queryErr error
	addErr   error
	setErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{collections: make(map[string]map[string]store.Document)}
}

func (f *fakeStore) Get(_ context.Context, collection, id string) (store.Document, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	doc, ok := f.collections[collection][id]
	return doc, ok, nil
}

func (f *fakeStore) Query(_ context.Context, collection, field string, value any) ([]store.Record, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var records []store.Record
	for id, doc := range f.collections[collection] {
		if doc[field] == value {
			records = append(records, store.Record{ID: id, Doc: doc})
		}
	}
	return records, nil
}

func (f *fakeStore) Add(_ context.Context, collection string, doc store.Document) (string, error) {
	if f.addErr != nil {
		return "", f.addErr
	}
	f.nextID++
	id := fmt.Sprintf("fake-%d", f.nextID)
	return id, f.Set(context.Background(), collection, id, doc)
}

func (f *fakeStore) Set(_ context.Context, collection, id string, doc store.Document) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.collections[collection] == nil {
		f.collections[collection] = make(map[string]store.Document)
	}
	// Store a copy so later mutation by the caller can't leak in
	copied := make(store.Document, len(doc))
	for k, v := range doc {
		copied[k] = v
	}
	f.collections[collection][id] = copied
	return nil
}

// =========================================================================
// SHARED TEST HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!", "tea-journal", "tea-journal-api")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

// ctxWithToken builds a request context carrying the given bearer token,
// the way the identity middleware would.
func ctxWithToken(t *testing.T, tokens *auth.TokenService, token string) context.Context {
	t.Helper()
	return auth.ContextWithIdentity(context.Background(), tokens, token, testLogger())
}

// ctxAuthenticated issues a fresh token for userID and wraps it in a
// request context.
func ctxAuthenticated(t *testing.T, tokens *auth.TokenService, userID string) context.Context {
	t.Helper()
	token, err := tokens.Issue(userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return ctxWithToken(t, tokens, token)
}

// fastPasswords uses bcrypt's minimum cost for both bounds — tests don't
// need the production work factor.
func fastPasswords() *auth.PasswordService {
	return auth.NewPasswordServiceWithBounds(bcrypt.MinCost, bcrypt.MinCost)
}
