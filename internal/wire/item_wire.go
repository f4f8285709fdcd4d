package wire

import (
	"net/http"

	"salty-fish/internal/adaptor"
	"salty-fish/internal/data/entity"
	"salty-fish/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireItem(r chi.Router, itemHandler *adaptor.ItemHandler, authenticate func(http.Handler) http.Handler) {
	r.Route("/items", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", itemHandler.GetItems)
		r.Get("/{id}", itemHandler.GetItemsByCategory)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(authenticate, middleware.Authorize(entity.RoleAdmin))
			r.Post("/", itemHandler.CreateItem)
			r.Post("/{id}", itemHandler.AddStock)
			r.Post("/{id}/remove-stock", itemHandler.RemoveStock)
		})
	})
}
