package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/figstore/internal/domain"
)

// fileRecord is the on-disk shape of one figure in a JSON dump.
type fileRecord struct {
	ID          int64  `json:"id"`
	Code        string `json:"cod"`
	SequenceID  int64  `json:"sequenceId"`
	Name        string `json:"name"`
	Category    string `json:"model"`
	Price       string `json:"price"`
	ReleaseDate string `json:"releaseDate"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toFileRecord(f domain.Figure) fileRecord {
	return fileRecord{
		ID:          f.ID,
		Code:        f.Code.String(),
		SequenceID:  f.SequenceID,
		Name:        f.Name,
		Category:    f.Category.String(),
		Price:       f.Price.String(),
		ReleaseDate: f.ReleaseDate.Format(time.DateOnly),
		CreatedAt:   f.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   f.UpdatedAt.Format(time.RFC3339),
	}
}

// ExportJSON dumps the whole catalog into a pretty-printed JSON file at path.
// An existing file is overwritten.
func (s *Service) ExportJSON(ctx context.Context, path string) error {
	figures, err := s.reader.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("list figures: %w", err)
	}

	records := make([]fileRecord, 0, len(figures))
	for _, f := range figures {
		records = append(records, toFileRecord(*f))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}

	s.log.InfoContext(ctx, "catalog exported",
		slog.String("path", path),
		slog.Int("figures", len(records)),
	)
	return nil
}
