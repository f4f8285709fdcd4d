package usecase

import (
	"context"
	"time"

	"salty-fish/internal/data/entity"
	"salty-fish/internal/data/repository"
	"salty-fish/internal/dto/request"
	"salty-fish/internal/dto/response"
	"salty-fish/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minCartQuantity = 1
	maxCartQuantity = 10
)

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	AddToCart(ctx context.Context, userID uuid.UUID, req *request.AddToCartRequest) ([]response.CartItemResponse, error)
	UpdateCart(ctx context.Context, userID uuid.UUID, req *request.UpdateCartRequest) ([]response.CartItemResponse, error)
	DeleteCart(ctx context.Context, userID uuid.UUID, lineID string) ([]response.CartItemResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	itemRepo repository.ItemRepository
	now      func() time.Time
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, itemRepo repository.ItemRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		itemRepo: itemRepo,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) load(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, utils.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, utils.NewNotFoundError("User not found")
	}
	return user, nil
}

func (us *userService) save(ctx context.Context, user *entity.User) ([]response.CartItemResponse, error) {
	if err := us.userRepo.Save(ctx, user); err != nil {
		us.log.Error("Failed to save cart", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, utils.NewInternalError("failed to save cart", err)
	}
	return response.CartToResponse(user.Cart), nil
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// AddToCart upserts the line for (item, variant): an existing line takes the
// new quantity and weight, otherwise a line is appended.
func (us *userService) AddToCart(ctx context.Context, userID uuid.UUID, req *request.AddToCartRequest) ([]response.CartItemResponse, error) {
	if req.ItemID == "" || req.VariantID == "" || req.Quantity == 0 || req.Weight == 0 {
		return nil, utils.NewValidationError("Missing required fields (itemId, variantId, quantity, weight).")
	}
	if req.Quantity < minCartQuantity || req.Quantity > maxCartQuantity {
		return nil, utils.NewValidationError("Quantity must be between 1 and 10.")
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, utils.NewValidationError("Invalid item ID")
	}
	item, err := us.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, utils.NewInternalError("failed to load item", err)
	}
	if item == nil {
		return nil, utils.NewNotFoundError("No item found with this ID")
	}
	if !hasVariant(item, req.VariantID) {
		return nil, utils.NewNotFoundError("Variant not found for this item")
	}

	user, err := us.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if i := user.Cart.FindVariant(itemID, req.VariantID); i >= 0 {
		user.Cart[i].Quantity = req.Quantity
		user.Cart[i].Weight = req.Weight
	} else {
		now := us.now()
		lineID, err := utils.NewULID(now)
		if err != nil {
			return nil, utils.NewInternalError("failed to generate cart line id", err)
		}
		user.Cart = append(user.Cart, entity.CartItem{
			ID:        lineID,
			ItemID:    itemID,
			VariantID: req.VariantID,
			Quantity:  req.Quantity,
			Weight:    req.Weight,
			AddedAt:   now,
		})
	}

	return us.save(ctx, user)
}

func (us *userService) UpdateCart(ctx context.Context, userID uuid.UUID, req *request.UpdateCartRequest) ([]response.CartItemResponse, error) {
	if req.CartID == "" || req.UpdateQty == 0 {
		return nil, utils.NewValidationError("Quantity and Cart ID are required fields.")
	}

	user, err := us.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Cart) == 0 {
		return nil, utils.NewNotFoundError("You don't have any items in your cart.")
	}

	i := user.Cart.FindLine(req.CartID)
	if i < 0 {
		return nil, utils.NewNotFoundError("Cart item not found.")
	}
	if req.UpdateQty < minCartQuantity || req.UpdateQty > maxCartQuantity {
		return nil, utils.NewValidationError("Quantity must be between 1 and 10.")
	}

	user.Cart[i].Quantity = req.UpdateQty
	return us.save(ctx, user)
}

func (us *userService) DeleteCart(ctx context.Context, userID uuid.UUID, lineID string) ([]response.CartItemResponse, error) {
	if lineID == "" {
		return nil, utils.NewValidationError("Cart ID is required.")
	}

	user, err := us.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Cart) == 0 {
		return nil, utils.NewNotFoundError("You don't have any items in your cart.")
	}

	i := user.Cart.FindLine(lineID)
	if i < 0 {
		return nil, utils.NewNotFoundError("Cart item not found.")
	}

	user.Cart = append(user.Cart[:i], user.Cart[i+1:]...)
	return us.save(ctx, user)
}

func hasVariant(item *entity.Item, variantID string) bool {
	for _, v := range item.Variants {
		if v.ID == variantID {
			return true
		}
	}
	return false
}
