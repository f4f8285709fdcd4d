package response

import (
	"time"

	"salty-fish/internal/data/entity"
)

type VariantResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	WeightValue float64          `json:"weightValue"`
	WeightUnit  entity.StockUnit `json:"weightUnit"`
	Price       float64          `json:"price"`
	MRP         float64          `json:"mrp"`
	Active      bool             `json:"active"`
}

type ItemResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	SortName          string            `json:"sortName,omitempty"`
	Slug              string            `json:"slug"`
	CategoryID        string            `json:"category"`
	StockUnit         entity.StockUnit  `json:"stockUnit"`
	StockTotal        float64           `json:"stockTotal"`
	StockBalance      float64           `json:"stockBalance"`
	LowStockThreshold float64           `json:"lowStockThreshold"`
	InStock           bool              `json:"inStock"`
	Variants          []VariantResponse `json:"variants"`
	Active            bool              `json:"active"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

func ItemToResponse(item *entity.Item) ItemResponse {
	variants := make([]VariantResponse, 0, len(item.Variants))
	for _, v := range item.Variants {
		variants = append(variants, VariantResponse(v))
	}

	return ItemResponse{
		ID:                item.ID.String(),
		Name:              item.Name,
		SortName:          item.SortName,
		Slug:              item.Slug,
		CategoryID:        item.CategoryID.String(),
		StockUnit:         item.StockUnit,
		StockTotal:        item.StockTotal,
		StockBalance:      item.StockBalance,
		LowStockThreshold: item.LowStockThreshold,
		InStock:           item.InStock(),
		Variants:          variants,
		Active:            item.Active,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

func ItemsToResponse(items []*entity.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ItemToResponse(item))
	}
	return out
}
