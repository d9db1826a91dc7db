package item

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Fangsangik/shopping/internal/cache"
	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/Fangsangik/shopping/internal/repository"
	"golang.org/x/sync/singleflight"
)

// Service serves the item catalog. Reads go through the cache; concurrent
// misses for the same item collapse into a single repository lookup.
type Service struct {
	repo  repository.Repository
	cache cache.ItemCache
	group singleflight.Group
}

func NewService(repo repository.Repository, itemCache cache.ItemCache) *Service {
	return &Service{repo: repo, cache: itemCache}
}

func (s *Service) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	cached, err := s.cache.Get(ctx, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("item cache get failed for %d: %v", id, err)
	}

	v, err, _ := s.group.Do(fmt.Sprintf("item:%d", id), func() (interface{}, error) {
		item, err := s.repo.FindItem(ctx, id)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := s.cache.Set(context.Background(), item); err != nil {
				log.Printf("item cache set failed for %d: %v", id, err)
			}
		}()
		return item, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Item), nil
}

func (s *Service) FindByName(ctx context.Context, name string) (*domain.Item, error) {
	return s.repo.FindItemByName(ctx, name)
}

// CreateItem registers a new catalog item. Names are unique.
func (s *Service) CreateItem(ctx context.Context, name string, price, stock int) (*domain.Item, error) {
	if name == "" || price < 0 || stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	item := &domain.Item{
		Name:   name,
		Price:  price,
		Stock:  stock,
		Status: domain.ItemStatusAvailable,
	}
	err := s.repo.Within(ctx, func(tx repository.Store) error {
		_, err := tx.FindItemByName(ctx, name)
		if err == nil {
			return domain.ErrItemExists
		}
		if !errors.Is(err, domain.ErrItemNotFound) {
			return err
		}
		return tx.SaveItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem changes price, stock or status, then drops the cached copy so
// the next read sees the fresh row.
func (s *Service) UpdateItem(ctx context.Context, item *domain.Item) error {
	if item.ID == 0 || item.Price < 0 || item.Stock < 0 {
		return domain.ErrInvalidInput
	}
	err := s.repo.Within(ctx, func(tx repository.Store) error {
		if _, err := tx.FindItem(ctx, item.ID); err != nil {
			return err
		}
		return tx.SaveItem(ctx, item)
	})
	if err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, item.ID); err != nil {
		log.Printf("item cache delete failed for %d: %v", item.ID, err)
	}
	return nil
}
