package figure

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/figstore/internal/domain"
)

// FindAll returns the whole catalog straight from storage. The cache is a
// single-record accelerator and is deliberately not consulted here.
func (s *Service) FindAll(ctx context.Context) ([]*domain.Figure, error) {
	s.log.DebugContext(ctx, "finding all figures")

	figures, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all: %w", err)
	}
	return figures, nil
}

// FindByID returns the figure with the given id, serving from the cache
// when possible. A storage hit populates the cache; a storage miss is
// domain.ErrNotFound.
func (s *Service) FindByID(ctx context.Context, id int64) (*domain.Figure, error) {
	if f, ok := s.cache.Get(id); ok {
		s.log.DebugContext(ctx, "figure served from cache", "id", id)
		return f, nil
	}

	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find by id: %w", err)
	}

	s.cache.Put(f.ID, f)
	return f, nil
}

// FindByCode returns the figure with the given external code. The lookup
// always goes to storage; the resolved row is cached under its numeric id.
func (s *Service) FindByCode(ctx context.Context, code uuid.UUID) (*domain.Figure, error) {
	f, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("find by code: %w", err)
	}

	s.cache.Put(f.ID, f)
	return f, nil
}

// FindByCategory returns all figures of the given category from storage.
func (s *Service) FindByCategory(ctx context.Context, category domain.Category) ([]*domain.Figure, error) {
	if !category.IsValid() {
		return nil, domain.NewValidationError("category", fmt.Sprintf("unknown category %q", category))
	}

	figures, err := s.repo.GetByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("find by category: %w", err)
	}
	return figures, nil
}

// FindByReleaseYear returns all figures released in the given year.
func (s *Service) FindByReleaseYear(ctx context.Context, year int) ([]*domain.Figure, error) {
	figures, err := s.repo.GetByReleaseYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("find by release year: %w", err)
	}
	return figures, nil
}
