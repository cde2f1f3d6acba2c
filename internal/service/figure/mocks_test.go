package figure

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/figstore/internal/domain"
)

var (
	_ figureRepo  = &figureRepoMock{}
	_ figureCache = &figureCacheMock{}
	_ eventBus    = &eventBusMock{}
)

type figureRepoMock struct {
	GetAllFunc           func(ctx context.Context) ([]*domain.Figure, error)
	GetByIDFunc          func(ctx context.Context, id int64) (*domain.Figure, error)
	GetByCodeFunc        func(ctx context.Context, code uuid.UUID) (*domain.Figure, error)
	GetByCategoryFunc    func(ctx context.Context, category domain.Category) ([]*domain.Figure, error)
	GetByReleaseYearFunc func(ctx context.Context, year int) ([]*domain.Figure, error)
	CreateFunc           func(ctx context.Context, f *domain.Figure) error
	UpdateFunc           func(ctx context.Context, f *domain.Figure) (*domain.Figure, error)
	DeleteFunc           func(ctx context.Context, id int64) error
	DeleteAllFunc        func(ctx context.Context) error

	mu    sync.Mutex
	calls struct {
		GetAll           int
		GetByID          []int64
		GetByCode        []uuid.UUID
		GetByCategory    []domain.Category
		GetByReleaseYear []int
		Create           []*domain.Figure
		Update           []*domain.Figure
		Delete           []int64
		DeleteAll        int
	}
}

func (m *figureRepoMock) GetAll(ctx context.Context) ([]*domain.Figure, error) {
	m.mu.Lock()
	m.calls.GetAll++
	m.mu.Unlock()
	return m.GetAllFunc(ctx)
}

func (m *figureRepoMock) GetByID(ctx context.Context, id int64) (*domain.Figure, error) {
	m.mu.Lock()
	m.calls.GetByID = append(m.calls.GetByID, id)
	m.mu.Unlock()
	return m.GetByIDFunc(ctx, id)
}

func (m *figureRepoMock) GetByCode(ctx context.Context, code uuid.UUID) (*domain.Figure, error) {
	m.mu.Lock()
	m.calls.GetByCode = append(m.calls.GetByCode, code)
	m.mu.Unlock()
	return m.GetByCodeFunc(ctx, code)
}

func (m *figureRepoMock) GetByCategory(ctx context.Context, category domain.Category) ([]*domain.Figure, error) {
	m.mu.Lock()
	m.calls.GetByCategory = append(m.calls.GetByCategory, category)
	m.mu.Unlock()
	return m.GetByCategoryFunc(ctx, category)
}

func (m *figureRepoMock) GetByReleaseYear(ctx context.Context, year int) ([]*domain.Figure, error) {
	m.mu.Lock()
	m.calls.GetByReleaseYear = append(m.calls.GetByReleaseYear, year)
	m.mu.Unlock()
	return m.GetByReleaseYearFunc(ctx, year)
}

func (m *figureRepoMock) Create(ctx context.Context, f *domain.Figure) error {
	m.mu.Lock()
	m.calls.Create = append(m.calls.Create, f)
	m.mu.Unlock()
	return m.CreateFunc(ctx, f)
}

func (m *figureRepoMock) Update(ctx context.Context, f *domain.Figure) (*domain.Figure, error) {
	m.mu.Lock()
	m.calls.Update = append(m.calls.Update, f)
	m.mu.Unlock()
	return m.UpdateFunc(ctx, f)
}

func (m *figureRepoMock) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	m.calls.Delete = append(m.calls.Delete, id)
	m.mu.Unlock()
	return m.DeleteFunc(ctx, id)
}

func (m *figureRepoMock) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	m.calls.DeleteAll++
	m.mu.Unlock()
	return m.DeleteAllFunc(ctx)
}

func (m *figureRepoMock) UpdateCalls() []*domain.Figure {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Update
}

func (m *figureRepoMock) GetByIDCalls() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.GetByID
}

// figureCacheMock is a trivial map-backed cache without eviction;
// good enough for asserting service/cache interaction.
type figureCacheMock struct {
	mu      sync.Mutex
	entries map[int64]*domain.Figure
	puts    []int64
	removes []int64
	clears  int
}

func newFigureCacheMock() *figureCacheMock {
	return &figureCacheMock{entries: make(map[int64]*domain.Figure)}
}

func (m *figureCacheMock) Get(id int64) (*domain.Figure, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.entries[id]
	return f, ok
}

func (m *figureCacheMock) Put(id int64, f *domain.Figure) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = f
	m.puts = append(m.puts, id)
}

func (m *figureCacheMock) Remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	m.removes = append(m.removes, id)
}

func (m *figureCacheMock) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[int64]*domain.Figure)
	m.clears++
}

type eventBusMock struct {
	mu     sync.Mutex
	events []domain.Event
}

func (m *eventBusMock) Publish(event domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *eventBusMock) Events() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}
