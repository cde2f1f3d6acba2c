package backup

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/figstore/internal/domain"
)

// csvColumns is the expected per-row layout of an import file.
const csvColumns = 5

// RowError describes one rejected row of an import file.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ImportReport summarizes an ImportCSV run. Rejected rows do not abort
// the import; the remaining rows are still persisted.
type ImportReport struct {
	Imported int
	Rejected []RowError
}

// ImportCSV loads figures from a `cod,name,model,price,release` CSV file,
// persisting each valid row without publishing notifications. A header
// row is detected and skipped. The returned report lists every row that
// could not be parsed or stored.
func (s *Service) ImportCSV(ctx context.Context, path string) (*ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = csvColumns
	r.TrimLeadingSpace = true

	report := &ImportReport{}
	line := 0

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			report.Rejected = append(report.Rejected, RowError{Line: line, Err: err})
			continue
		}
		if line == 1 && isHeader(row) {
			continue
		}

		fig, err := parseRow(row)
		if err != nil {
			report.Rejected = append(report.Rejected, RowError{Line: line, Err: err})
			continue
		}

		if _, err := s.writer.SaveSilent(ctx, fig); err != nil {
			report.Rejected = append(report.Rejected, RowError{Line: line, Err: err})
			continue
		}
		report.Imported++
	}

	s.log.InfoContext(ctx, "catalog imported",
		slog.String("path", path),
		slog.Int("imported", report.Imported),
		slog.Int("rejected", len(report.Rejected)),
	)
	return report, nil
}

func isHeader(row []string) bool {
	return strings.EqualFold(strings.TrimSpace(row[0]), "cod")
}

func parseRow(row []string) (*domain.Figure, error) {
	code, err := uuid.Parse(strings.TrimSpace(row[0]))
	if err != nil {
		return nil, fmt.Errorf("code: %w", err)
	}

	category := domain.Category(strings.TrimSpace(row[2]))
	if !category.IsValid() {
		return nil, fmt.Errorf("unknown category %q", row[2])
	}

	price, err := decimal.NewFromString(strings.TrimSpace(row[3]))
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}

	release, err := time.Parse(time.DateOnly, strings.TrimSpace(row[4]))
	if err != nil {
		return nil, fmt.Errorf("release date: %w", err)
	}

	return &domain.Figure{
		Code:        code,
		Name:        strings.TrimSpace(row[1]),
		Category:    category,
		Price:       price,
		ReleaseDate: release,
	}, nil
}
