package backup

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/figstore/internal/domain"
)

type figureReaderMock struct {
	FindAllFunc func(ctx context.Context) ([]*domain.Figure, error)
}

func (m *figureReaderMock) FindAll(ctx context.Context) ([]*domain.Figure, error) {
	return m.FindAllFunc(ctx)
}

type figureWriterMock struct {
	SaveSilentFunc func(ctx context.Context, f *domain.Figure) (*domain.Figure, error)

	mu    sync.Mutex
	saved []domain.Figure
}

func (m *figureWriterMock) SaveSilent(ctx context.Context, f *domain.Figure) (*domain.Figure, error) {
	m.mu.Lock()
	m.saved = append(m.saved, *f)
	m.mu.Unlock()
	if m.SaveSilentFunc != nil {
		return m.SaveSilentFunc(ctx, f)
	}
	return f, nil
}

func (m *figureWriterMock) Saved() []domain.Figure {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved
}

func newTestService(reader figureReader, writer figureWriter) *Service {
	return NewService(slog.Default(), reader, writer)
}

func TestExportJSON_WritesPrettyDump(t *testing.T) {
	t.Parallel()

	release := time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC)
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	fig := domain.Figure{
		ID:          7,
		Code:        uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		SequenceID:  1,
		Name:        "Iron Man",
		Category:    domain.CategoryMarvel,
		Price:       decimal.NewFromFloat(29.99),
		ReleaseDate: release,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	}
	reader := &figureReaderMock{
		FindAllFunc: func(ctx context.Context) ([]*domain.Figure, error) {
			return []*domain.Figure{&fig}, nil
		},
	}
	svc := newTestService(reader, &figureWriterMock{})

	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, svc.ExportJSON(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", records[0]["cod"])
	assert.Equal(t, "MARVEL", records[0]["model"])
	assert.Equal(t, "29.99", records[0]["price"])
	assert.Equal(t, "2023-05-12", records[0]["releaseDate"])
}

func TestExportJSON_EmptyCatalog(t *testing.T) {
	t.Parallel()

	reader := &figureReaderMock{
		FindAllFunc: func(ctx context.Context) ([]*domain.Figure, error) {
			return nil, nil
		},
	}
	svc := newTestService(reader, &figureWriterMock{})

	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, svc.ExportJSON(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestImportCSV_LoadsValidRowsSkipsHeader(t *testing.T) {
	t.Parallel()

	csvData := "cod,name,model,price,release\n" +
		"11111111-2222-3333-4444-555555555555,Iron Man,MARVEL,29.99,2023-05-12\n" +
		"22222222-2222-3333-4444-555555555555,Stitch,DISNEY,14.50,2022-11-01\n"
	path := filepath.Join(t.TempDir(), "load.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0o644))

	writer := &figureWriterMock{}
	svc := newTestService(&figureReaderMock{}, writer)

	report, err := svc.ImportCSV(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Empty(t, report.Rejected)

	saved := writer.Saved()
	require.Len(t, saved, 2)
	assert.Equal(t, "Iron Man", saved[0].Name)
	assert.Equal(t, domain.CategoryDisney, saved[1].Category)
	assert.True(t, saved[1].Price.Equal(decimal.NewFromFloat(14.50)))
}

func TestImportCSV_MalformedRowsReportedOthersLoaded(t *testing.T) {
	t.Parallel()

	csvData := "11111111-2222-3333-4444-555555555555,Iron Man,MARVEL,29.99,2023-05-12\n" +
		"not-a-uuid,Broken,MARVEL,1.00,2023-01-01\n" +
		"33333333-2222-3333-4444-555555555555,Bad Category,SPORTS,1.00,2023-01-01\n" +
		"44444444-2222-3333-4444-555555555555,Goku,ANIME,19.90,2021-03-03\n"
	path := filepath.Join(t.TempDir(), "load.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0o644))

	writer := &figureWriterMock{}
	svc := newTestService(&figureReaderMock{}, writer)

	report, err := svc.ImportCSV(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	require.Len(t, report.Rejected, 2)
	assert.Equal(t, 2, report.Rejected[0].Line)
	assert.Equal(t, 3, report.Rejected[1].Line)
	require.Len(t, writer.Saved(), 2)
}

func TestImportCSV_MissingFile(t *testing.T) {
	t.Parallel()

	svc := newTestService(&figureReaderMock{}, &figureWriterMock{})

	_, err := svc.ImportCSV(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))

	require.Error(t, err)
}
