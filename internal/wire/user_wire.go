package wire

import (
	"net/http"

	"salty-fish/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser configures the current user's profile and cart routes
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, authenticate func(http.Handler) http.Handler) {
	r.With(authenticate).Route("/user", func(r chi.Router) {
		r.Post("/findUser", userHandler.GetMe)
		r.Post("/add-cart", userHandler.AddToCart)
		r.Patch("/update-cart", userHandler.UpdateCart)
		r.Delete("/update-cart/{id}", userHandler.DeleteCart)
	})
}
