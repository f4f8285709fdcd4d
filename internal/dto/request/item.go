package request

type VariantRequest struct {
	Title       string  `json:"title" validate:"required"`
	WeightValue float64 `json:"weightValue" validate:"gt=0"`
	WeightUnit  string  `json:"weightUnit" validate:"required,oneof=g kg ml l pcs"`
	Price       float64 `json:"price" validate:"gte=0"`
	MRP         float64 `json:"mrp" validate:"gte=0"`
}

type CreateItemRequest struct {
	Name              string           `json:"name"`
	SortName          string           `json:"sortName"`
	CategoryID        string           `json:"category" validate:"required,uuid"`
	StockUnit         string           `json:"stockUnit" validate:"omitempty,oneof=g kg ml l pcs"`
	StockTotal        float64          `json:"stockTotal" validate:"gte=0"`
	LowStockThreshold float64          `json:"lowStockThreshold" validate:"gte=0"`
	Variants          []VariantRequest `json:"variants" validate:"dive"`
}

// StockRequest carries the weight for add-stock and remove-stock. Weight is a
// pointer so a missing value can be told apart from zero.
type StockRequest struct {
	Weight *float64 `json:"weight"`
}
