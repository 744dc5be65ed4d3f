package service

import (
	"context"

	"taskathlete/internal/domain"
	"taskathlete/internal/store"
)

// BodyweightService records and retrieves bodyweight journal entries.
type BodyweightService struct {
	store *store.BodyweightStore
}

// NewBodyweightService creates a BodyweightService.
func NewBodyweightService(s *store.BodyweightStore) *BodyweightService {
	return &BodyweightService{store: s}
}

// AddBodyweightEntry logs a new sample. Fails with
// domain.ErrBodyweightEntryExists if a non-deleted entry already exists
// at the same timestamp.
func (s *BodyweightService) AddBodyweightEntry(ctx context.Context, entry domain.BodyweightEntry) (int64, error) {
	if entry.Weight <= 0 {
		return 0, domain.NewInvalidInput("bodyweight must be a positive number")
	}
	return s.store.Add(ctx, entry)
}

// GetLatestBodyweight returns the most recent non-deleted entry, or nil
// if none exist.
func (s *BodyweightService) GetLatestBodyweight(ctx context.Context) (*domain.BodyweightEntry, error) {
	return s.store.GetLatest(ctx)
}

// ListBodyweights returns non-deleted entries, most recent first,
// optionally capped at limit.
func (s *BodyweightService) ListBodyweights(ctx context.Context, limit *int) ([]domain.BodyweightEntry, error) {
	return s.store.List(ctx, limit)
}

// DeleteBodyweight soft-deletes the entry with the given id.
func (s *BodyweightService) DeleteBodyweight(ctx context.Context, id int64) (int64, error) {
	return s.store.Delete(ctx, id)
}
