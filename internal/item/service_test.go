package item

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Fangsangik/shopping/internal/cache"
	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/Fangsangik/shopping/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCache records hits and failures.
type MockCache struct {
	mu      sync.Mutex
	items   map[int64]*domain.Item
	GetErr  error
	SetErr  error
	Sets    int
	Deletes int
}

func NewMockCache() *MockCache {
	return &MockCache{items: make(map[int64]*domain.Item)}
}

func (m *MockCache) Get(_ context.Context, itemID int64) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	item, ok := m.items[itemID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return item, nil
}

func (m *MockCache) Set(_ context.Context, item *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.items[item.ID] = item
	m.Sets++
	return nil
}

func (m *MockCache) Delete(_ context.Context, itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, itemID)
	m.Deletes++
	return nil
}

func (m *MockCache) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Sets
}

func TestCreateItem(t *testing.T) {
	repo := repository.NewMemoryRepository()
	service := NewService(repo, cache.Noop{})
	ctx := context.Background()

	created, err := service.CreateItem(ctx, "keyboard", 50000, 10)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.ItemStatusAvailable, created.Status)

	_, err = service.CreateItem(ctx, "keyboard", 60000, 5)
	assert.ErrorIs(t, err, domain.ErrItemExists)
}

func TestCreateItem_Validation(t *testing.T) {
	repo := repository.NewMemoryRepository()
	service := NewService(repo, cache.Noop{})
	ctx := context.Background()

	_, err := service.CreateItem(ctx, "", 100, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = service.CreateItem(ctx, "x", -1, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = service.CreateItem(ctx, "x", 100, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFindByID_CacheHitSkipsRepository(t *testing.T) {
	repo := repository.NewMemoryRepository()
	mock := NewMockCache()
	service := NewService(repo, mock)
	ctx := context.Background()

	cached := &domain.Item{ID: 42, Name: "cached", Price: 100, Stock: 1, Status: domain.ItemStatusAvailable}
	require.NoError(t, mock.Set(ctx, cached))

	// The repository has never heard of item 42.
	found, err := service.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "cached", found.Name)
}

func TestFindByID_MissFillsCache(t *testing.T) {
	repo := repository.NewMemoryRepository()
	mock := NewMockCache()
	service := NewService(repo, mock)
	ctx := context.Background()

	item := &domain.Item{Name: "keyboard", Price: 50000, Stock: 10, Status: domain.ItemStatusAvailable}
	require.NoError(t, repo.SaveItem(ctx, item))

	found, err := service.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "keyboard", found.Name)

	// The cache fill is asynchronous.
	deadline := time.Now().Add(2 * time.Second)
	for mock.setCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 1, mock.setCount())
}

func TestFindByID_CacheErrorBypassed(t *testing.T) {
	repo := repository.NewMemoryRepository()
	mock := NewMockCache()
	mock.GetErr = errors.New("redis down")
	service := NewService(repo, mock)
	ctx := context.Background()

	item := &domain.Item{Name: "keyboard", Price: 50000, Stock: 10, Status: domain.ItemStatusAvailable}
	require.NoError(t, repo.SaveItem(ctx, item))

	found, err := service.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
}

func TestFindByID_NotFound(t *testing.T) {
	repo := repository.NewMemoryRepository()
	service := NewService(repo, cache.Noop{})

	_, err := service.FindByID(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestUpdateItem_InvalidatesCache(t *testing.T) {
	repo := repository.NewMemoryRepository()
	mock := NewMockCache()
	service := NewService(repo, mock)
	ctx := context.Background()

	item := &domain.Item{Name: "keyboard", Price: 50000, Stock: 10, Status: domain.ItemStatusAvailable}
	require.NoError(t, repo.SaveItem(ctx, item))
	require.NoError(t, mock.Set(ctx, item))

	item.Price = 45000
	require.NoError(t, service.UpdateItem(ctx, item))

	mock.mu.Lock()
	deletes := mock.Deletes
	mock.mu.Unlock()
	assert.Equal(t, 1, deletes)

	stored, err := repo.FindItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 45000, stored.Price)
}
