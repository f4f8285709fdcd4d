package repository

import (
	"salty-fish/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User UserRepository
	Item ItemRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User: NewUserRepository(db, log),
		Item: NewItemRepository(db, log),
	}
}
