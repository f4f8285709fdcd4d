package usecase

import (
	"context"
	"testing"

	"salty-fish/internal/data/entity"
	"salty-fish/internal/data/repository/repotest"
	"salty-fish/internal/dto/request"
	"salty-fish/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type cartFixture struct {
	users *repotest.UserRepo
	items *repotest.ItemRepo
	svc   UserService
	user  *entity.User
	item  *entity.Item
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	users := repotest.NewUserRepo()
	items := repotest.NewItemRepo()
	item := &entity.Item{
		Base: entity.Base{ID: uuid.New()},
		Name: "Dried Prawns",
		Slug: "dried-prawns",
		Variants: []entity.Variant{
			{ID: "v250", Title: "250 g", WeightValue: 250, WeightUnit: entity.UnitGram},
			{ID: "v500", Title: "500 g", WeightValue: 500, WeightUnit: entity.UnitGram},
		},
	}
	items.Put(item)

	svc := NewUserService(users, items, zap.NewNop()).(*userService)
	svc.now = newClock().Now

	return &cartFixture{
		users: users,
		items: items,
		svc:   svc,
		user:  seedUser(t, users, "a@example.com"),
		item:  item,
	}
}

func (f *cartFixture) add(t *testing.T, variant string, qty int) {
	t.Helper()
	_, err := f.svc.AddToCart(context.Background(), f.user.ID, &request.AddToCartRequest{
		ItemID: f.item.ID.String(), VariantID: variant, Quantity: qty, Weight: 250,
	})
	if err != nil {
		t.Fatalf("AddToCart(%s, %d): %v", variant, qty, err)
	}
}

func TestGetMe(t *testing.T) {
	f := newCartFixture(t)

	me, err := f.svc.GetMe(context.Background(), f.user.ID)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.ID != f.user.ID.String() || *me.Email != "a@example.com" {
		t.Errorf("me = %+v", me)
	}

	_, err = f.svc.GetMe(context.Background(), uuid.New())
	wantKind(t, err, utils.KindNotFound, "User not found")
}

func TestAddToCart_UpsertsByVariant(t *testing.T) {
	f := newCartFixture(t)

	f.add(t, "v250", 2)
	f.add(t, "v500", 1)
	f.add(t, "v250", 5)

	cart := f.users.Get(f.user.ID).Cart
	if len(cart) != 2 {
		t.Fatalf("lines = %d, want 2", len(cart))
	}
	if i := cart.FindVariant(f.item.ID, "v250"); cart[i].Quantity != 5 {
		t.Errorf("v250 quantity = %d, want 5", cart[i].Quantity)
	}
	if cart[0].ID == "" || cart[0].ID == cart[1].ID {
		t.Error("each line needs its own id")
	}
}

func TestAddToCart_Rejects(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  request.AddToCartRequest
		kind utils.ErrorKind
		msg  string
	}{
		{"missing fields", request.AddToCartRequest{ItemID: f.item.ID.String()}, utils.KindValidation,
			"Missing required fields (itemId, variantId, quantity, weight)."},
		{"quantity too high", request.AddToCartRequest{ItemID: f.item.ID.String(), VariantID: "v250", Quantity: 11, Weight: 1},
			utils.KindValidation, "Quantity must be between 1 and 10."},
		{"negative quantity", request.AddToCartRequest{ItemID: f.item.ID.String(), VariantID: "v250", Quantity: -1, Weight: 1},
			utils.KindValidation, "Quantity must be between 1 and 10."},
		{"unknown item", request.AddToCartRequest{ItemID: uuid.NewString(), VariantID: "v250", Quantity: 1, Weight: 1},
			utils.KindNotFound, "No item found with this ID"},
		{"unknown variant", request.AddToCartRequest{ItemID: f.item.ID.String(), VariantID: "v1kg", Quantity: 1, Weight: 1},
			utils.KindNotFound, "Variant not found for this item"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddToCart(ctx, f.user.ID, &tt.req)
			wantKind(t, err, tt.kind, tt.msg)
		})
	}
}

func TestUpdateCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateCart(ctx, f.user.ID, &request.UpdateCartRequest{CartID: "x", UpdateQty: 2})
	wantKind(t, err, utils.KindNotFound, "You don't have any items in your cart.")

	f.add(t, "v250", 2)
	line := f.users.Get(f.user.ID).Cart[0].ID

	_, err = f.svc.UpdateCart(ctx, f.user.ID, &request.UpdateCartRequest{CartID: "missing", UpdateQty: 2})
	wantKind(t, err, utils.KindNotFound, "Cart item not found.")

	_, err = f.svc.UpdateCart(ctx, f.user.ID, &request.UpdateCartRequest{CartID: line, UpdateQty: 11})
	wantKind(t, err, utils.KindValidation, "Quantity must be between 1 and 10.")

	cart, err := f.svc.UpdateCart(ctx, f.user.ID, &request.UpdateCartRequest{CartID: line, UpdateQty: 10})
	if err != nil {
		t.Fatalf("UpdateCart: %v", err)
	}
	if cart[0].Quantity != 10 {
		t.Errorf("quantity = %d, want 10", cart[0].Quantity)
	}
}

func TestDeleteCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	f.add(t, "v250", 1)
	f.add(t, "v500", 1)
	first := f.users.Get(f.user.ID).Cart[0].ID

	cart, err := f.svc.DeleteCart(ctx, f.user.ID, first)
	if err != nil {
		t.Fatalf("DeleteCart: %v", err)
	}
	if len(cart) != 1 || cart[0].VariantID != "v500" {
		t.Errorf("cart = %+v, want only v500", cart)
	}

	_, err = f.svc.DeleteCart(ctx, f.user.ID, first)
	wantKind(t, err, utils.KindNotFound, "Cart item not found.")
}
