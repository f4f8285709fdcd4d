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

func newTestItems() (*repotest.ItemRepo, *itemService) {
	items := repotest.NewItemRepo()
	s := NewItemService(items, zap.NewNop()).(*itemService)
	s.now = newClock().Now
	return items, s
}

func weight(v float64) *float64 { return &v }

func createReq(name string) *request.CreateItemRequest {
	return &request.CreateItemRequest{
		Name:       name,
		CategoryID: uuid.NewString(),
		StockTotal: 1000,
		Variants: []request.VariantRequest{
			{Title: "250 g", WeightValue: 250, WeightUnit: "g", Price: 180, MRP: 200},
		},
	}
}

func TestCreateItem(t *testing.T) {
	_, s := newTestItems()
	ctx := context.Background()

	item, err := s.CreateItem(ctx, createReq("Dried Anchovy"))
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Slug != "dried-anchovy" {
		t.Errorf("slug = %q", item.Slug)
	}
	if item.StockBalance != 1000 || item.StockUnit != entity.UnitGram {
		t.Errorf("stock = %v %s", item.StockBalance, item.StockUnit)
	}
	if len(item.Variants) != 1 || item.Variants[0].ID == "" {
		t.Errorf("variants = %+v", item.Variants)
	}

	_, err = s.CreateItem(ctx, createReq("dried  anchovy"))
	wantKind(t, err, utils.KindValidation, "An item with this name already exists")
}

func TestCreateItem_Rejects(t *testing.T) {
	_, s := newTestItems()

	noVariants := createReq("Prawns")
	noVariants.Variants = nil
	badCategory := createReq("Prawns")
	badCategory.CategoryID = "fish"

	tests := []struct {
		req *request.CreateItemRequest
		msg string
	}{
		{createReq("   "), "Item name is required"},
		{createReq("!!!"), "Item name must contain letters or digits"},
		{noVariants, "At least one variant is required"},
		{badCategory, "Invalid category ID"},
	}
	for _, tt := range tests {
		_, err := s.CreateItem(context.Background(), tt.req)
		wantKind(t, err, utils.KindValidation, tt.msg)
	}
}

func TestGetItems_Paginates(t *testing.T) {
	_, s := newTestItems()
	ctx := context.Background()
	for _, name := range []string{"Anchovy", "Barracuda", "Croaker"} {
		if _, err := s.CreateItem(ctx, createReq(name)); err != nil {
			t.Fatalf("CreateItem(%s): %v", name, err)
		}
	}

	page, err := s.GetItems(ctx, &request.PaginatedRequest{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Name != "Croaker" {
		t.Errorf("page 2 = %+v", page.Data)
	}
	if page.Pagination.Total != 3 || page.Pagination.TotalPages != 2 {
		t.Errorf("pagination = %+v", page.Pagination)
	}
}

func TestStock(t *testing.T) {
	items, s := newTestItems()
	ctx := context.Background()

	created, err := s.CreateItem(ctx, createReq("Seer Fish"))
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	id := created.ID

	_, err = s.AddStock(ctx, id, weight(-1))
	wantKind(t, err, utils.KindValidation, "Weight value must be provided and must be a non-negative number")
	_, err = s.AddStock(ctx, id, nil)
	wantKind(t, err, utils.KindValidation, "")

	if _, err := s.AddStock(ctx, id, weight(0)); err != nil {
		t.Errorf("zero weight should be accepted: %v", err)
	}
	added, err := s.AddStock(ctx, id, weight(500))
	if err != nil {
		t.Fatalf("AddStock: %v", err)
	}
	if added.StockTotal != 1500 || added.StockBalance != 1500 {
		t.Errorf("after add: total %v balance %v", added.StockTotal, added.StockBalance)
	}

	_, err = s.RemoveStock(ctx, id, weight(0))
	wantKind(t, err, utils.KindValidation, "Weight must be a positive number")
	_, err = s.RemoveStock(ctx, id, weight(2000))
	wantKind(t, err, utils.KindValidation, "Not enough stock to remove")

	removed, err := s.RemoveStock(ctx, id, weight(1500))
	if err != nil {
		t.Fatalf("RemoveStock: %v", err)
	}
	if removed.StockBalance != 0 || removed.StockTotal != 1500 {
		t.Errorf("after remove: total %v balance %v", removed.StockTotal, removed.StockBalance)
	}

	uid, _ := uuid.Parse(id)
	stored, _ := items.FindByID(ctx, uid)
	if n := len(stored.StockUpdates); n != 4 {
		t.Errorf("stock updates = %d, want 4", n)
	}

	_, err = s.RemoveStock(ctx, uuid.NewString(), weight(1))
	wantKind(t, err, utils.KindNotFound, "No item found with this ID")
}
