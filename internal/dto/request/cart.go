package request

type AddToCartRequest struct {
	ItemID    string  `json:"itemId" validate:"omitempty,uuid"`
	VariantID string  `json:"variantId"`
	Quantity  int     `json:"quantity" validate:"gte=0"`
	Weight    float64 `json:"weight" validate:"gte=0"`
}

type UpdateCartRequest struct {
	CartID    string `json:"cartId"`
	UpdateQty int    `json:"updateQty"`
}
