// Package resolver turns a free-form exercise identifier — a numeric id,
// an alias, or a canonical name — into the exercise definition it names.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"taskathlete/internal/domain"
	"taskathlete/internal/store"
)

// Resolver resolves identifiers against the exercise catalog and its
// aliases.
type Resolver struct {
	exercises *store.ExerciseStore
	aliases   *store.AliasStore
	log       *slog.Logger
}

// New creates a Resolver. A nil logger falls back to slog.Default.
func New(exercises *store.ExerciseStore, aliases *store.AliasStore, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{exercises: exercises, aliases: aliases, log: log}
}

// Resolve translates identifier into an exercise definition. Resolution
// order: numeric id (no fallthrough on miss), alias, canonical name.
// A dangling alias — one pointing at a missing or soft-deleted exercise —
// logs a warning and resolves to nil rather than falling through to a
// name lookup, since the alias's target name may not match what the
// caller typed.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*domain.ExerciseDefinition, domain.ResolutionMethod, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, 0, domain.NewInvalidInput("identifier must not be empty")
	}

	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		def, err := r.exercises.GetByID(ctx, id)
		if errors.Is(err, domain.ErrExerciseNotFound) {
			return nil, 0, nil
		}
		if err != nil {
			return nil, 0, err
		}
		return def, domain.ResolvedByID, nil
	}

	canonical, found, err := r.aliases.GetCanonicalFor(ctx, identifier)
	if err != nil {
		return nil, 0, err
	}
	if found {
		def, err := r.exercises.GetByName(ctx, canonical)
		if errors.Is(err, domain.ErrExerciseNotFound) {
			r.log.Warn("dangling alias points to missing exercise",
				"alias", identifier, "exercise_name", canonical)
			return nil, 0, nil
		}
		if err != nil {
			return nil, 0, err
		}
		return def, domain.ResolvedByAlias, nil
	}

	def, err := r.exercises.GetByName(ctx, identifier)
	if errors.Is(err, domain.ErrExerciseNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return def, domain.ResolvedByName, nil
}

// ResolveToCanonicalName resolves identifier and returns just its
// canonical exercise name.
func (r *Resolver) ResolveToCanonicalName(ctx context.Context, identifier string) (string, error) {
	def, _, err := r.Resolve(ctx, identifier)
	if err != nil {
		return "", err
	}
	if def == nil {
		return "", domain.ErrExerciseNotFound
	}
	return def.Name, nil
}
