package figure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/figstore/internal/domain"
)

// DeleteByID removes a figure, returning its pre-delete snapshot and
// publishing a Deleted event. Absent id is domain.ErrNotFound.
//
// The cache entry is dropped before the storage delete: storage is the
// source of truth, and a transient mismatch self-heals on the next
// FindByID miss.
func (s *Service) DeleteByID(ctx context.Context, id int64) (*domain.Figure, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete: %w", err)
	}

	s.cache.Remove(id)

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete: %w", err)
	}

	s.bus.Publish(domain.Event{Kind: domain.EventDeleted, Figure: *f})

	s.log.InfoContext(ctx, "figure deleted",
		slog.Int64("id", id),
		slog.String("name", f.Name),
	)

	return f, nil
}

// DeleteAll clears the cache and then empties storage. Bulk removal
// bypasses the event stream: no per-record notifications are emitted.
func (s *Service) DeleteAll(ctx context.Context) error {
	s.cache.Clear()

	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete all: %w", err)
	}

	s.log.InfoContext(ctx, "all figures deleted")
	return nil
}
