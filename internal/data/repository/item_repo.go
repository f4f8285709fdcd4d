package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salty-fish/internal/data/entity"
	"salty-fish/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrDuplicateSlug is returned by Create when another live item owns the slug.
	ErrDuplicateSlug = errors.New("item slug already exists")
	// ErrInsufficientStock is returned by RemoveStock when the balance is too low.
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Item, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Item, error)
	CountAll(ctx context.Context) (int64, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Item, error)
	AddStock(ctx context.Context, id uuid.UUID, value float64, at time.Time) (*entity.Item, error)
	RemoveStock(ctx context.Context, id uuid.UUID, value float64, at time.Time) (*entity.Item, error)
}

type itemRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewItemRepository(db database.PgxIface, log *zap.Logger) ItemRepository {
	return &itemRepository{
		db:  db,
		log: log.With(zap.String("repository", "item")),
	}
}

const itemColumns = `
	id, name, sort_name, slug, category_id, stock_unit,
	stock_total, stock_balance, low_stock_threshold, stock_updates, variants,
	active, created_at, updated_at, deleted_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var item entity.Item
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.SortName,
		&item.Slug,
		&item.CategoryID,
		&item.StockUnit,
		&item.StockTotal,
		&item.StockBalance,
		&item.LowStockThreshold,
		&item.StockUpdates,
		&item.Variants,
		&item.Active,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	variants, err := json.Marshal(item.Variants)
	if err != nil {
		return fmt.Errorf("encode variants: %w", err)
	}
	updates := item.StockUpdates
	if updates == nil {
		updates = []entity.StockUpdate{}
	}
	updatesJSON, err := json.Marshal(updates)
	if err != nil {
		return fmt.Errorf("encode stock updates: %w", err)
	}

	query := `
		INSERT INTO items (id, name, sort_name, slug, category_id, stock_unit,
		                   stock_total, stock_balance, low_stock_threshold,
		                   stock_updates, variants, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11::jsonb, $12, $13, $14)
	`

	_, err = r.db.Exec(ctx, query,
		item.ID,
		item.Name,
		item.SortName,
		item.Slug,
		item.CategoryID,
		item.StockUnit,
		item.StockTotal,
		item.StockBalance,
		item.LowStockThreshold,
		updatesJSON,
		variants,
		item.Active,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		r.log.Error("Failed to create item",
			zap.Error(err),
			zap.String("slug", item.Slug),
		)
		return fmt.Errorf("create item %s: %w", item.Slug, err)
	}

	return nil
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND deleted_at IS NULL`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find item by ID",
			zap.Error(err),
			zap.String("item_id", id.String()),
		)
		return nil, fmt.Errorf("find item by ID %s: %w", id, err)
	}

	return item, nil
}

func (r *itemRepository) FindBySlug(ctx context.Context, slug string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE slug = $1 AND deleted_at IS NULL`

	item, err := scanItem(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find item by slug",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return nil, fmt.Errorf("find item by slug %s: %w", slug, err)
	}

	return item, nil
}

func (r *itemRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items
		WHERE deleted_at IS NULL
		ORDER BY sort_name, name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to get all items",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all items limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *itemRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM items WHERE deleted_at IS NULL`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Database error counting items", zap.Error(err))
		return 0, fmt.Errorf("count all items: %w", err)
	}

	return count, nil
}

func (r *itemRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items
		WHERE category_id = $1 AND deleted_at IS NULL
		ORDER BY sort_name, name
	`

	rows, err := r.db.Query(ctx, query, categoryID)
	if err != nil {
		r.log.Error("Failed to get items by category",
			zap.Error(err),
			zap.String("category_id", categoryID.String()),
		)
		return nil, fmt.Errorf("find items by category %s: %w", categoryID, err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *itemRepository) collect(rows pgx.Rows) ([]*entity.Item, error) {
	var items []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			r.log.Error("Failed to scan item row", zap.Error(err))
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}

	return items, nil
}

// AddStock raises total and balance by value in one statement and records the change.
// It returns nil, nil when the item does not exist.
func (r *itemRepository) AddStock(ctx context.Context, id uuid.UUID, value float64, at time.Time) (*entity.Item, error) {
	entry, err := json.Marshal([]entity.StockUpdate{{Value: value, Type: entity.StockAdd, At: at}})
	if err != nil {
		return nil, fmt.Errorf("encode stock update: %w", err)
	}

	query := `
		UPDATE items
		SET stock_total = stock_total + $2,
		    stock_balance = stock_balance + $2,
		    stock_updates = stock_updates || $3::jsonb,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + itemColumns

	item, err := scanItem(r.db.QueryRow(ctx, query, id, value, entry))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to add stock",
			zap.Error(err),
			zap.String("item_id", id.String()),
		)
		return nil, fmt.Errorf("add stock to item %s: %w", id, err)
	}

	return item, nil
}

// RemoveStock lowers the balance by value only when at least value remains.
// It returns nil, nil when the item does not exist and ErrInsufficientStock
// when the balance is lower than value.
func (r *itemRepository) RemoveStock(ctx context.Context, id uuid.UUID, value float64, at time.Time) (*entity.Item, error) {
	entry, err := json.Marshal([]entity.StockUpdate{{Value: value, Type: entity.StockRemove, At: at}})
	if err != nil {
		return nil, fmt.Errorf("encode stock update: %w", err)
	}

	query := `
		UPDATE items
		SET stock_balance = stock_balance - $2,
		    stock_updates = stock_updates || $3::jsonb,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND stock_balance >= $2
		RETURNING ` + itemColumns

	item, err := scanItem(r.db.QueryRow(ctx, query, id, value, entry))
	if errors.Is(err, pgx.ErrNoRows) {
		existing, findErr := r.FindByID(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, nil
		}
		return nil, ErrInsufficientStock
	}
	if err != nil {
		r.log.Error("Failed to remove stock",
			zap.Error(err),
			zap.String("item_id", id.String()),
		)
		return nil, fmt.Errorf("remove stock from item %s: %w", id, err)
	}

	return item, nil
}
