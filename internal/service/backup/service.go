// Package backup implements catalog import/export against local files:
// a pretty-printed JSON dump of every record and a CSV loader that
// persists rows without emitting change notifications.
package backup

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/figstore/internal/domain"
)

// figureReader lists the catalog for export.
type figureReader interface {
	FindAll(ctx context.Context) ([]*domain.Figure, error)
}

// figureWriter persists imported rows. SaveSilent is used so a bulk
// import does not flood subscribers with per-row notifications.
type figureWriter interface {
	SaveSilent(ctx context.Context, f *domain.Figure) (*domain.Figure, error)
}

// Service reads and writes catalog backup files.
type Service struct {
	reader figureReader
	writer figureWriter
	log    *slog.Logger
}

// NewService creates a new backup service.
func NewService(log *slog.Logger, reader figureReader, writer figureWriter) *Service {
	return &Service{
		reader: reader,
		writer: writer,
		log:    log.With("service", "backup"),
	}
}
