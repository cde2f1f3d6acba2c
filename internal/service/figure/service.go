// Package figure orchestrates the figure repository, the in-process cache
// and the notification bus behind one CRUD API.
//
// The cache is a single-record accelerator, never authoritative: any path
// that could observe a cache/storage mismatch prefers storage.
package figure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/figstore/internal/domain"
)

type figureRepo interface {
	GetAll(ctx context.Context) ([]*domain.Figure, error)
	GetByID(ctx context.Context, id int64) (*domain.Figure, error)
	GetByCode(ctx context.Context, code uuid.UUID) (*domain.Figure, error)
	GetByCategory(ctx context.Context, category domain.Category) ([]*domain.Figure, error)
	GetByReleaseYear(ctx context.Context, year int) ([]*domain.Figure, error)
	Create(ctx context.Context, f *domain.Figure) error
	Update(ctx context.Context, f *domain.Figure) (*domain.Figure, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

type figureCache interface {
	Get(id int64) (*domain.Figure, bool)
	Put(id int64, f *domain.Figure)
	Remove(id int64)
	Clear()
}

type eventBus interface {
	Publish(event domain.Event)
}

// Service provides figure catalog operations.
type Service struct {
	repo  figureRepo
	cache figureCache
	bus   eventBus
	log   *slog.Logger
}

// NewService creates a new figure service.
func NewService(log *slog.Logger, repo figureRepo, cache figureCache, bus eventBus) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		bus:   bus,
		log:   log.With("service", "figure"),
	}
}
