package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"salty-fish/internal/data/entity"
	"salty-fish/internal/data/repository"
	"salty-fish/internal/dto/request"
	"salty-fish/internal/dto/response"
	"salty-fish/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ItemService interface {
	CreateItem(ctx context.Context, req *request.CreateItemRequest) (*response.ItemResponse, error)
	GetItems(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ItemResponse], error)
	GetItemsByCategory(ctx context.Context, categoryID string) ([]response.ItemResponse, error)
	AddStock(ctx context.Context, itemID string, weight *float64) (*response.ItemResponse, error)
	RemoveStock(ctx context.Context, itemID string, weight *float64) (*response.ItemResponse, error)
}

type itemService struct {
	itemRepo repository.ItemRepository
	now      func() time.Time
	log      *zap.Logger
}

func NewItemService(itemRepo repository.ItemRepository, log *zap.Logger) ItemService {
	return &itemService{
		itemRepo: itemRepo,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log.With(zap.String("service", "item")),
	}
}

func (s *itemService) CreateItem(ctx context.Context, req *request.CreateItemRequest) (*response.ItemResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, utils.NewValidationError("Item name is required")
	}
	if len(req.Variants) == 0 {
		return nil, utils.NewValidationError("At least one variant is required")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, utils.NewValidationError("Invalid category ID")
	}

	slug := utils.Slugify(name)
	if slug == "" {
		return nil, utils.NewValidationError("Item name must contain letters or digits")
	}

	now := s.now()
	variants := make([]entity.Variant, 0, len(req.Variants))
	for _, v := range req.Variants {
		id, err := utils.NewULID(now)
		if err != nil {
			return nil, utils.NewInternalError("failed to generate variant id", err)
		}
		variants = append(variants, entity.Variant{
			ID:          id,
			Title:       v.Title,
			WeightValue: v.WeightValue,
			WeightUnit:  entity.StockUnit(v.WeightUnit),
			Price:       v.Price,
			MRP:         v.MRP,
			Active:      true,
		})
	}

	unit := entity.StockUnit(req.StockUnit)
	if unit == "" {
		unit = entity.UnitGram
	}

	item := &entity.Item{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:              name,
		SortName:          strings.TrimSpace(req.SortName),
		Slug:              slug,
		CategoryID:        categoryID,
		StockUnit:         unit,
		StockTotal:        req.StockTotal,
		StockBalance:      req.StockTotal,
		LowStockThreshold: req.LowStockThreshold,
		Variants:          variants,
		Active:            true,
	}
	if req.StockTotal > 0 {
		item.StockUpdates = []entity.StockUpdate{{Value: req.StockTotal, Type: entity.StockAdd, At: now}}
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, utils.NewValidationError("An item with this name already exists")
		}
		return nil, utils.NewInternalError("failed to create item", err)
	}

	s.log.Info("Item created", zap.String("item_id", item.ID.String()), zap.String("slug", slug))

	resp := response.ItemToResponse(item)
	return &resp, nil
}

func (s *itemService) GetItems(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ItemResponse], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	limit := req.Limit()
	req.PerPage = limit

	items, err := s.itemRepo.FindAll(ctx, limit, req.Offset())
	if err != nil {
		return nil, utils.NewInternalError("failed to list items", err)
	}
	total, err := s.itemRepo.CountAll(ctx)
	if err != nil {
		return nil, utils.NewInternalError("failed to count items", err)
	}

	return response.NewPaginatedResponse(response.ItemsToResponse(items), req.Page, limit, total), nil
}

func (s *itemService) GetItemsByCategory(ctx context.Context, categoryID string) ([]response.ItemResponse, error) {
	id, err := uuid.Parse(categoryID)
	if err != nil {
		return nil, utils.NewValidationError("Invalid category ID")
	}

	items, err := s.itemRepo.FindByCategory(ctx, id)
	if err != nil {
		return nil, utils.NewInternalError("failed to list items", err)
	}
	return response.ItemsToResponse(items), nil
}

// AddStock accepts zero or more; a negative weight is refused.
func (s *itemService) AddStock(ctx context.Context, itemID string, weight *float64) (*response.ItemResponse, error) {
	if weight == nil || *weight < 0 {
		return nil, utils.NewValidationError("Weight value must be provided and must be a non-negative number")
	}
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, utils.NewValidationError("Invalid item ID")
	}

	item, err := s.itemRepo.AddStock(ctx, id, *weight, s.now())
	if err != nil {
		return nil, utils.NewInternalError("failed to add stock", err)
	}
	if item == nil {
		return nil, utils.NewNotFoundError("No item found with this ID")
	}

	resp := response.ItemToResponse(item)
	return &resp, nil
}

func (s *itemService) RemoveStock(ctx context.Context, itemID string, weight *float64) (*response.ItemResponse, error) {
	if weight == nil || *weight <= 0 {
		return nil, utils.NewValidationError("Weight must be a positive number")
	}
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, utils.NewValidationError("Invalid item ID")
	}

	item, err := s.itemRepo.RemoveStock(ctx, id, *weight, s.now())
	if errors.Is(err, repository.ErrInsufficientStock) {
		return nil, utils.NewValidationError("Not enough stock to remove")
	}
	if err != nil {
		return nil, utils.NewInternalError("failed to remove stock", err)
	}
	if item == nil {
		return nil, utils.NewNotFoundError("No item found with this ID")
	}

	if item.StockBalance <= item.LowStockThreshold {
		s.log.Warn("Item stock is low",
			zap.String("item_id", item.ID.String()),
			zap.Float64("balance", item.StockBalance))
	}

	resp := response.ItemToResponse(item)
	return &resp, nil
}
