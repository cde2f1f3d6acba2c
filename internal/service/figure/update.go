package figure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/figstore/internal/domain"
)

// Update rewrites an existing figure's mutable fields, refreshes the cache
// and publishes an Updated event. The figure must already exist in storage;
// otherwise domain.ErrNotFound is returned and storage is never mutated.
func (s *Service) Update(ctx context.Context, f *domain.Figure) (*domain.Figure, error) {
	if err := validate(f); err != nil {
		return nil, err
	}

	// Existence check against storage, not cache: storage is authoritative.
	if _, err := s.repo.GetByID(ctx, f.ID); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}

	updated, err := s.repo.Update(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}

	s.cache.Put(updated.ID, updated)
	s.bus.Publish(domain.Event{Kind: domain.EventUpdated, Figure: *updated})

	s.log.InfoContext(ctx, "figure updated",
		slog.Int64("id", updated.ID),
		slog.String("name", updated.Name),
	)

	return updated, nil
}
