package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"salty-fish/internal/data/entity"
	"salty-fish/internal/data/repository"

	"github.com/google/uuid"
)

// ItemRepo is an in-memory repository.ItemRepository.
type ItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entity.Item
	Err   error
}

var _ repository.ItemRepository = (*ItemRepo)(nil)

func NewItemRepo() *ItemRepo {
	return &ItemRepo{items: make(map[uuid.UUID]*entity.Item)}
}

func cloneItem(i *entity.Item) *entity.Item {
	c := *i
	c.Variants = append([]entity.Variant(nil), i.Variants...)
	c.StockUpdates = append([]entity.StockUpdate(nil), i.StockUpdates...)
	return &c
}

func (r *ItemRepo) Put(item *entity.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = cloneItem(item)
}

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, existing := range r.items {
		if existing.DeletedAt == nil && existing.Slug == item.Slug {
			return repository.ErrDuplicateSlug
		}
	}
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *ItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	i, ok := r.items[id]
	if !ok || i.DeletedAt != nil {
		return nil, nil
	}
	return cloneItem(i), nil
}

func (r *ItemRepo) FindBySlug(ctx context.Context, slug string) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, i := range r.items {
		if i.DeletedAt == nil && i.Slug == slug {
			return cloneItem(i), nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) sortedLocked(keep func(*entity.Item) bool) []*entity.Item {
	var out []*entity.Item
	for _, i := range r.items {
		if i.DeletedAt == nil && keep(i) {
			out = append(out, cloneItem(i))
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].SortName != out[b].SortName {
			return out[a].SortName < out[b].SortName
		}
		return out[a].Name < out[b].Name
	})
	return out
}

func (r *ItemRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	all := r.sortedLocked(func(*entity.Item) bool { return true })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *ItemRepo) CountAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return int64(len(r.sortedLocked(func(*entity.Item) bool { return true }))), nil
}

func (r *ItemRepo) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.sortedLocked(func(i *entity.Item) bool { return i.CategoryID == categoryID }), nil
}

func (r *ItemRepo) AddStock(ctx context.Context, id uuid.UUID, value float64, at time.Time) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	i, ok := r.items[id]
	if !ok || i.DeletedAt != nil {
		return nil, nil
	}
	i.StockTotal += value
	i.StockBalance += value
	i.StockUpdates = append(i.StockUpdates, entity.StockUpdate{Value: value, Type: entity.StockAdd, At: at})
	return cloneItem(i), nil
}

func (r *ItemRepo) RemoveStock(ctx context.Context, id uuid.UUID, value float64, at time.Time) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	i, ok := r.items[id]
	if !ok || i.DeletedAt != nil {
		return nil, nil
	}
	if i.StockBalance < value {
		return nil, repository.ErrInsufficientStock
	}
	i.StockBalance -= value
	i.StockUpdates = append(i.StockUpdates, entity.StockUpdate{Value: value, Type: entity.StockRemove, At: at})
	return cloneItem(i), nil
}
