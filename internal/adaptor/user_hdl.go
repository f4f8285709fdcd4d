package adaptor

import (
	"net/http"

	"salty-fish/internal/dto/request"
	"salty-fish/internal/usecase"
	"salty-fish/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetMe handles POST /api/v1/auth/me and POST /api/v1/user/findUser
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseError(w, utils.NewAuthError("No authenticated user"))
		return
	}

	user, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "get current user")
		return
	}

	utils.ResponseSuccess(w, "", map[string]any{"user": user})
}

// AddToCart handles POST /api/v1/user/add-cart
func (h *UserHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseError(w, utils.NewAuthError("No authenticated user. Please sign in first."))
		return
	}

	var req request.AddToCartRequest
	if !bind(w, r, &req) {
		return
	}

	cart, err := h.service.AddToCart(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "add to cart")
		return
	}

	utils.ResponseSuccess(w, "Cart updated successfully", map[string]any{"cart": cart})
}

// UpdateCart handles PATCH /api/v1/user/update-cart
func (h *UserHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseError(w, utils.NewAuthError("No authenticated user. Please sign in first."))
		return
	}

	var req request.UpdateCartRequest
	if !bind(w, r, &req) {
		return
	}

	cart, err := h.service.UpdateCart(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update cart")
		return
	}

	utils.ResponseSuccess(w, "Cart updated successfully", map[string]any{"cart": cart})
}

// DeleteCart handles DELETE /api/v1/user/update-cart/{id}
func (h *UserHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseError(w, utils.NewAuthError("No authenticated user. Please sign in first."))
		return
	}

	cart, err := h.service.DeleteCart(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "delete cart item")
		return
	}

	utils.ResponseSuccess(w, "Cart item removed successfully", map[string]any{"cart": cart})
}
