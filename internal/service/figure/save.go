package figure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/figstore/internal/domain"
)

// Save persists a new figure and publishes a Created event carrying the
// stored row.
func (s *Service) Save(ctx context.Context, f *domain.Figure) (*domain.Figure, error) {
	saved, err := s.SaveSilent(ctx, f)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(domain.Event{Kind: domain.EventCreated, Figure: *saved})

	s.log.InfoContext(ctx, "figure created",
		slog.Int64("id", saved.ID),
		slog.String("code", saved.Code.String()),
		slog.String("name", saved.Name),
	)

	return saved, nil
}

// SaveSilent persists a new figure without publishing an event. Bulk
// loaders (CSV import) use it to avoid flooding subscribers; everything
// else should go through Save.
//
// After the insert the row is re-read by external code so the returned
// figure reflects exactly what storage computed, generated timestamps
// included.
func (s *Service) SaveSilent(ctx context.Context, f *domain.Figure) (*domain.Figure, error) {
	if err := validate(f); err != nil {
		return nil, err
	}

	if f.Code == uuid.Nil {
		f.Code = uuid.New()
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	saved, err := s.FindByCode(ctx, f.Code)
	if err != nil {
		return nil, fmt.Errorf("save: re-fetch: %w", err)
	}

	return saved, nil
}

func validate(f *domain.Figure) error {
	if f.Name == "" {
		return domain.NewValidationError("name", "required")
	}
	if !f.Category.IsValid() {
		return domain.NewValidationError("category", fmt.Sprintf("unknown category %q", f.Category))
	}
	if f.Price.IsNegative() {
		return domain.NewValidationError("price", "must not be negative")
	}
	return nil
}
