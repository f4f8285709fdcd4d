package entity

import (
	"time"

	"github.com/google/uuid"
)

type StockUnit string

const (
	UnitGram       StockUnit = "g"
	UnitKilogram   StockUnit = "kg"
	UnitMillilitre StockUnit = "ml"
	UnitLitre      StockUnit = "l"
	UnitPieces     StockUnit = "pcs"
)

type StockUpdateType string

const (
	StockAdd    StockUpdateType = "add"
	StockRemove StockUpdateType = "remove"
)

type Item struct {
	Base
	Name              string        `db:"name"`
	SortName          string        `db:"sort_name"`
	Slug              string        `db:"slug"`
	CategoryID        uuid.UUID     `db:"category_id"`
	StockUnit         StockUnit     `db:"stock_unit"`
	StockTotal        float64       `db:"stock_total"`
	StockBalance      float64       `db:"stock_balance"`
	LowStockThreshold float64       `db:"low_stock_threshold"`
	StockUpdates      []StockUpdate `db:"stock_updates"`
	Variants          []Variant     `db:"variants"`
	Active            bool          `db:"active"`
}

// InStock reports whether any balance remains.
func (i *Item) InStock() bool {
	return i.StockBalance > 0
}

type Variant struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	WeightValue float64   `json:"weight_value"`
	WeightUnit  StockUnit `json:"weight_unit"`
	Price       float64   `json:"price"`
	MRP         float64   `json:"mrp"`
	Active      bool      `json:"active"`
}

type StockUpdate struct {
	Value float64         `json:"value"`
	Type  StockUpdateType `json:"type"`
	At    time.Time       `json:"at"`
}
