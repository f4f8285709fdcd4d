package adaptor

import (
	"net/http"
	"strconv"

	"salty-fish/internal/dto/request"
	"salty-fish/internal/usecase"
	"salty-fish/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ItemHandler struct {
	service usecase.ItemService
	log     *zap.Logger
}

func NewItemHandler(service usecase.ItemService, log *zap.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		log:     log.With(zap.String("handler", "item")),
	}
}

// CreateItem handles POST /api/v1/items (admin)
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req request.CreateItemRequest
	if !bind(w, r, &req) {
		return
	}

	item, err := h.service.CreateItem(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create item")
		return
	}

	utils.ResponseCreated(w, "Item created successfully", item)
}

// GetItems handles GET /api/v1/items?page=&per_page=
func (h *ItemHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    h.parseInt(query.Get("page"), 1),
		PerPage: h.parseInt(query.Get("per_page"), 20),
	}

	items, err := h.service.GetItems(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get items")
		return
	}

	utils.ResponseSuccess(w, "Success", items)
}

// GetItemsByCategory handles GET /api/v1/items/{id}
func (h *ItemHandler) GetItemsByCategory(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.GetItemsByCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get items by category")
		return
	}

	utils.ResponseSuccess(w, "Success", items)
}

// AddStock handles POST /api/v1/items/{id} (admin)
func (h *ItemHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	var req request.StockRequest
	if !bind(w, r, &req) {
		return
	}

	item, err := h.service.AddStock(r.Context(), chi.URLParam(r, "id"), req.Weight)
	if err != nil {
		handleServiceError(h.log, w, err, "add stock")
		return
	}

	utils.ResponseSuccess(w, "Stock updated", item)
}

// RemoveStock handles POST /api/v1/items/{id}/remove-stock (admin)
func (h *ItemHandler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	var req request.StockRequest
	if !bind(w, r, &req) {
		return
	}

	item, err := h.service.RemoveStock(r.Context(), chi.URLParam(r, "id"), req.Weight)
	if err != nil {
		handleServiceError(h.log, w, err, "remove stock")
		return
	}

	utils.ResponseSuccess(w, "Stock updated", item)
}

// Helper to parse int with default value
func (h *ItemHandler) parseInt(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(s)
	if err != nil || val < 1 {
		return defaultValue
	}
	return val
}
