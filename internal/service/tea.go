package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/tea-journal/internal/apperror"
	"github.com/sakif/tea-journal/internal/auth"
	"github.com/sakif/tea-journal/internal/model"
	"github.com/sakif/tea-journal/internal/store"
)

// TeaService handles tea and brew listing plus tea creation.
type TeaService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTeaService creates a TeaService.
func NewTeaService(st store.Store, logger *slog.Logger) *TeaService {
	return &TeaService{store: st, logger: logger}
}

// PostTeaInput carries the postTea mutation's arguments.
// IsPublic defaults to false — a tea is private until its owner says
// otherwise.
type PostTeaInput struct {
	Brand    string
	Name     string
	Type     string
	IsPublic bool
}

// PublicTeas returns every tea with isPublic=true. No identity required,
// never fails on an empty collection.
func (s *TeaService) PublicTeas(ctx context.Context) ([]model.Tea, error) {
	records, err := s.store.Query(ctx, store.Teas, "isPublic", true)
	if err != nil {
		return nil, fmt.Errorf("listing public teas: %w", err)
	}
	return teasFromRecords(records), nil
}

// UserTeas returns every tea owned by the caller, public or not — the
// visibility filter is not reapplied to an owner's own listing.
//
// This is the one read that REQUIRES identity: a missing or failed
// resolution is an authentication error here, not a silent degrade.
func (s *TeaService) UserTeas(ctx context.Context) ([]model.Tea, error) {
	userID, err := auth.IdentityFromContext(ctx).Resolve()
	if err != nil || userID == "" {
		return nil, apperror.Authentication("You are not logged in")
	}

	_, found, err := s.store.Get(ctx, store.Users, userID)
	if err != nil {
		return nil, fmt.Errorf("looking up user %s: %w", userID, err)
	}
	if !found {
		// Identity verified but no user document behind it — stale token for
		// a deleted account, or a store that lost the write.
		return nil, apperror.Validation("User ID not found")
	}

	records, err := s.store.Query(ctx, store.Teas, "userId", userID)
	if err != nil {
		return nil, fmt.Errorf("listing teas for user %s: %w", userID, err)
	}
	return teasFromRecords(records), nil
}

// TeaBrews returns every brew recorded against the given tea.
// The tea must exist; the brews themselves need no identity — brew listing
// is not identity-gated, even for private teas.
func (s *TeaService) TeaBrews(ctx context.Context, teaID string) ([]model.Brew, error) {
	_, found, err := s.store.Get(ctx, store.Teas, teaID)
	if err != nil {
		return nil, fmt.Errorf("looking up tea %s: %w", teaID, err)
	}
	if !found {
		return nil, apperror.Validation("Tea ID not found")
	}

	records, err := s.store.Query(ctx, store.Brews, "teaId", teaID)
	if err != nil {
		return nil, fmt.Errorf("listing brews for tea %s: %w", teaID, err)
	}

	brews := make([]model.Brew, 0, len(records))
	for _, r := range records {
		brews = append(brews, model.BrewFromDocument(r.ID, r.Doc))
	}
	return brews, nil
}

// PostTea creates a tea owned by the caller.
//
// Identity handling distinguishes the two failure shapes:
//   - resolution FAILED (bad/expired token) → authentication error
//   - resolution succeeded as anonymous (no token) → nil result, no error;
//     anonymous callers simply cannot post, and that's not worth a 500
//
// The new tea is re-read from the store after the write so the response is
// the canonical stored record, id included.
func (s *TeaService) PostTea(ctx context.Context, in PostTeaInput) (*model.Tea, error) {
	userID, err := auth.IdentityFromContext(ctx).Resolve()
	if err != nil {
		return nil, apperror.Authentication("You are not logged in")
	}
	if userID == "" {
		s.logger.Info("anonymous postTea ignored", slog.String("name", in.Name))
		return nil, nil
	}

	teaType := model.TeaType(in.Type)
	if !teaType.Valid() {
		return nil, apperror.Validation("Invalid tea type")
	}

	tea := model.Tea{
		Brand:    in.Brand,
		Name:     in.Name,
		Type:     teaType,
		Rating:   0,
		IsPublic: in.IsPublic,
		UserID:   userID,
	}

	id, err := s.store.Add(ctx, store.Teas, tea.Document())
	if err != nil {
		return nil, fmt.Errorf("storing tea: %w", err)
	}

	// No rollback if this re-read fails — the tea stays created and the
	// caller gets the error.
	doc, found, err := s.store.Get(ctx, store.Teas, id)
	if err != nil {
		return nil, fmt.Errorf("reading back tea %s: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("tea %s missing immediately after create", id)
	}

	created := model.TeaFromDocument(id, doc)
	s.logger.Info("tea created",
		slog.String("teaID", id),
		slog.String("userID", userID),
		slog.String("type", in.Type))
	return &created, nil
}

func teasFromRecords(records []store.Record) []model.Tea {
	teas := make([]model.Tea, 0, len(records))
	for _, r := range records {
		teas = append(teas, model.TeaFromDocument(r.ID, r.Doc))
	}
	return teas
}
