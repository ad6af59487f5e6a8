package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/tea-journal/internal/apperror"
	"github.com/sakif/tea-journal/internal/auth"
	"github.com/sakif/tea-journal/internal/store"
)

// newTestTeaService wires a TeaService over a fake store pre-seeded with
// one user ("u1"), two of their teas (one public, one private), a public
// tea from another owner, and two brews against the private tea.
func newTestTeaService(t *testing.T) (*TeaService, *fakeStore, *auth.TokenService) {
	t.Helper()

	st := newFakeStore()
	ctx := context.Background()

	seed := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}

	seed(st.Set(ctx, store.Users, "u1", store.Document{
		"email": "u1@example.com", "passwordHash": "$2a$04$x",
	}))
	seed(st.Set(ctx, store.Teas, "tea-public", store.Document{
		"brand": "Lipton", "name": "Yellow Label", "type": "Black",
		"rating": 2.5, "isPublic": true, "userId": "u1",
	}))
	seed(st.Set(ctx, store.Teas, "tea-private", store.Document{
		"brand": "Ippodo", "name": "Gyokuro", "type": "Green",
		"rating": 5.0, "isPublic": false, "userId": "u1",
	}))
	seed(st.Set(ctx, store.Teas, "tea-other-owner", store.Document{
		"brand": "Twinings", "name": "Earl Grey", "type": "Black",
		"rating": 3.0, "isPublic": true, "userId": "someone-else",
	}))
	for _, brew := range []store.Document{
		{"timestamp": "2026-08-01T09:00:00Z", "temperature": 60, "dose": 4.0, "time": 120, "rating": 4.5, "notes": "sweet", "teaId": "tea-private"},
		{"timestamp": "2026-08-02T09:00:00Z", "temperature": 70, "dose": 4.0, "time": 90, "rating": 3.0, "notes": "oversteeped", "teaId": "tea-private"},
	} {
		_, err := st.Add(ctx, store.Brews, brew)
		seed(err)
	}

	return NewTeaService(st, testLogger()), st, testTokenService(t)
}

// =========================================================================
// PUBLIC TEAS
// =========================================================================

func TestPublicTeas_OnlyPublic(t *testing.T) {
	svc, _, _ := newTestTeaService(t)

	teas, err := svc.PublicTeas(context.Background())
	if err != nil {
		t.Fatalf("PublicTeas() error = %v", err)
	}
	if len(teas) != 2 {
		t.Fatalf("PublicTeas() returned %d teas, want 2", len(teas))
	}
	for _, tea := range teas {
		if !tea.IsPublic {
			t.Errorf("PublicTeas() returned private tea %s", tea.ID)
		}
	}
}

func TestPublicTeas_EmptyStore(t *testing.T) {
	svc := NewTeaService(newFakeStore(), testLogger())

	teas, err := svc.PublicTeas(context.Background())
	if err != nil {
		t.Fatalf("PublicTeas() error = %v", err)
	}
	if len(teas) != 0 {
		t.Errorf("PublicTeas() on empty store returned %d teas", len(teas))
	}
}

// =========================================================================
// USER TEAS
// =========================================================================

func TestUserTeas_OwnerSeesAllTheirTeas(t *testing.T) {
	svc, _, tokens := newTestTeaService(t)

	teas, err := svc.UserTeas(ctxAuthenticated(t, tokens, "u1"))
	if err != nil {
		t.Fatalf("UserTeas() error = %v", err)
	}
	// Both of u1's teas come back — the private one included
	if len(teas) != 2 {
		t.Fatalf("UserTeas() returned %d teas, want 2", len(teas))
	}
	var sawPrivate bool
	for _, tea := range teas {
		if tea.UserID != "u1" {
			t.Errorf("UserTeas() returned tea owned by %q", tea.UserID)
		}
		if !tea.IsPublic {
			sawPrivate = true
		}
	}
	if !sawPrivate {
		t.Error("UserTeas() filtered out the owner's private tea")
	}
}

func TestUserTeas_Anonymous(t *testing.T) {
	svc, _, _ := newTestTeaService(t)

	_, err := svc.UserTeas(context.Background())
	if !errors.Is(err, apperror.ErrAuthentication) {
		t.Errorf("UserTeas() error = %v, want AuthenticationError", err)
	}
}

func TestUserTeas_FailedResolution(t *testing.T) {
	svc, _, tokens := newTestTeaService(t)

	_, err := svc.UserTeas(ctxWithToken(t, tokens, "garbage.token.here"))
	if !errors.Is(err, apperror.ErrAuthentication) {
		t.Errorf("UserTeas() error = %v, want AuthenticationError", err)
	}
}

func TestUserTeas_ValidIdentityUnknownUser(t *testing.T) {
	// The token verifies, but no user document exists behind it.
	svc, _, tokens := newTestTeaService(t)

	_, err := svc.UserTeas(ctxAuthenticated(t, tokens, "ghost"))
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("UserTeas() error = %v, want ValidationError", err)
	}
	if err.Error() != "User ID not found" {
		t.Errorf("UserTeas() message = %q, want %q", err.Error(), "User ID not found")
	}
}

// =========================================================================
// TEA BREWS
// =========================================================================

func TestTeaBrews_ListsBrews(t *testing.T) {
	svc, _, _ := newTestTeaService(t)

	brews, err := svc.TeaBrews(context.Background(), "tea-private")
	if err != nil {
		t.Fatalf("TeaBrews() error = %v", err)
	}
	if len(brews) != 2 {
		t.Fatalf("TeaBrews() returned %d brews, want 2", len(brews))
	}
	for _, brew := range brews {
		if brew.TeaID != "tea-private" {
			t.Errorf("TeaBrews() returned brew for tea %q", brew.TeaID)
		}
	}
}

func TestTeaBrews_UnknownTea(t *testing.T) {
	svc, _, _ := newTestTeaService(t)

	_, err := svc.TeaBrews(context.Background(), "no-such-tea")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("TeaBrews() error = %v, want ValidationError", err)
	}
	if err.Error() != "Tea ID not found" {
		t.Errorf("TeaBrews() message = %q, want %q", err.Error(), "Tea ID not found")
	}
}

func TestTeaBrews_NoOwnershipCheck(t *testing.T) {
	// Brew listing is not identity-gated: an anonymous caller can list
	// brews even for a private tea.
	svc, _, _ := newTestTeaService(t)

	brews, err := svc.TeaBrews(context.Background(), "tea-private")
	if err != nil {
		t.Fatalf("TeaBrews() error = %v", err)
	}
	if len(brews) == 0 {
		t.Error("TeaBrews() returned nothing for an anonymous caller")
	}
}

// =========================================================================
// POST TEA
// =========================================================================

func TestPostTea_CreatesWithDefaults(t *testing.T) {
	svc, _, tokens := newTestTeaService(t)

	tea, err := svc.PostTea(ctxAuthenticated(t, tokens, "u1"), PostTeaInput{
		Brand: "Lipton",
		Name:  "Green",
		Type:  "Green",
	})
	if err != nil {
		t.Fatalf("PostTea() error = %v", err)
	}
	if tea == nil {
		t.Fatal("PostTea() returned nil tea for an authenticated caller")
	}

	if tea.ID == "" {
		t.Error("PostTea() tea has no id")
	}
	if tea.Brand != "Lipton" || tea.Name != "Green" || string(tea.Type) != "Green" {
		t.Errorf("PostTea() tea = %+v, want the submitted fields", tea)
	}
	if tea.IsPublic {
		t.Error("PostTea() isPublic = true, want default false")
	}
	if tea.Rating != 0 {
		t.Errorf("PostTea() rating = %v, want default 0", tea.Rating)
	}
	if tea.UserID != "u1" {
		t.Errorf("PostTea() userId = %q, want the resolved identity", tea.UserID)
	}
}

func TestPostTea_ExplicitPublic(t *testing.T) {
	svc, _, tokens := newTestTeaService(t)

	tea, err := svc.PostTea(ctxAuthenticated(t, tokens, "u1"), PostTeaInput{
		Brand: "Ippodo", Name: "Sencha", Type: "Green", IsPublic: true,
	})
	if err != nil {
		t.Fatalf("PostTea() error = %v", err)
	}
	if !tea.IsPublic {
		t.Error("PostTea() dropped the explicit isPublic=true")
	}
}

func TestPostTea_InvalidType(t *testing.T) {
	svc, _, tokens := newTestTeaService(t)

	_, err := svc.PostTea(ctxAuthenticated(t, tokens, "u1"), PostTeaInput{
		Brand: "X", Name: "Y", Type: "Blue",
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("PostTea() error = %v, want ValidationError", err)
	}
	if err.Error() != "Invalid tea type" {
		t.Errorf("PostTea() message = %q, want %q", err.Error(), "Invalid tea type")
	}
}

func TestPostTea_AnonymousShortCircuits(t *testing.T) {
	svc, st, _ := newTestTeaService(t)
	before := len(st.collections[store.Teas])

	tea, err := svc.PostTea(context.Background(), PostTeaInput{
		Brand: "X", Name: "Y", Type: "Green",
	})
	if err != nil {
		t.Fatalf("PostTea() error = %v, want nil — anonymous post is a non-error no-op", err)
	}
	if tea != nil {
		t.Errorf("PostTea() tea = %+v, want nil for anonymous caller", tea)
	}
	if len(st.collections[store.Teas]) != before {
		t.Error("PostTea() stored a tea for an anonymous caller")
	}
}

func TestPostTea_FailedResolution(t *testing.T) {
	svc, _, tokens := newTestTeaService(t)

	_, err := svc.PostTea(ctxWithToken(t, tokens, "bad.token"), PostTeaInput{
		Brand: "X", Name: "Y", Type: "Green",
	})
	if !errors.Is(err, apperror.ErrAuthentication) {
		t.Fatalf("PostTea() error = %v, want AuthenticationError", err)
	}
	if err.Error() != "You are not logged in" {
		t.Errorf("PostTea() message = %q, want %q", err.Error(), "You are not logged in")
	}
}
