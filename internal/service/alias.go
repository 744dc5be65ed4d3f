package service

import (
	"context"
	"database/sql"
	"strings"

	"taskathlete/internal/domain"
	"taskathlete/internal/resolver"
	"taskathlete/internal/store"
)

// AliasService manages alternative labels for exercises.
type AliasService struct {
	db       *sql.DB
	aliases  *store.AliasStore
	resolver *resolver.Resolver
}

// NewAliasService creates an AliasService.
func NewAliasService(db *sql.DB, aliases *store.AliasStore, r *resolver.Resolver) *AliasService {
	return &AliasService{db: db, aliases: aliases, resolver: r}
}

// CreateAlias registers alias as an alternative name for the exercise
// identified by canonicalIdentifier. canonicalIdentifier is resolved
// first, so callers may target an exercise by id, alias, or name; alias
// itself must not collide with any non-deleted exercise's id or name,
// and must not already be taken by another non-deleted alias.
func (s *AliasService) CreateAlias(ctx context.Context, alias, canonicalIdentifier string) error {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return domain.NewInvalidInput("alias must not be empty")
	}

	canonical, err := s.resolver.ResolveToCanonicalName(ctx, canonicalIdentifier)
	if err != nil {
		return err
	}

	collides, err := store.NameCollides(ctx, s.db, alias)
	if err != nil {
		return err
	}
	if collides {
		return domain.NewInvalidInput("alias \"" + alias + "\" collides with an existing exercise id or name")
	}

	return s.aliases.Create(ctx, alias, canonical)
}

// DeleteAlias soft-deletes alias. Returns the number of rows affected.
func (s *AliasService) DeleteAlias(ctx context.Context, alias string) (int64, error) {
	return s.aliases.Delete(ctx, alias)
}

// GetCanonicalForAlias returns the canonical exercise name alias
// currently resolves to, or ("", false) if no non-deleted alias matches.
func (s *AliasService) GetCanonicalForAlias(ctx context.Context, alias string) (string, bool, error) {
	return s.aliases.GetCanonicalFor(ctx, alias)
}

// ListAliases returns every non-deleted alias, sorted ascending by alias
// name.
func (s *AliasService) ListAliases(ctx context.Context) ([]domain.Alias, error) {
	return s.aliases.List(ctx)
}
