package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type LedgerSource string

const (
	LedgerSourceRestock LedgerSource = "restock"
	LedgerSourceSale    LedgerSource = "sale"
)

func (s LedgerSource) Valid() bool {
	return s == LedgerSourceRestock || s == LedgerSourceSale
}

var (
	ErrEmptyProduct  = errors.New("product required")
	ErrZeroDelta     = errors.New("delta must not be zero")
	ErrInvalidSource = errors.New("invalid source")
	// restockは増加のみ、saleは減少のみ
	ErrDeltaSign = errors.New("delta sign does not match source")
)

// 在庫台帳の1行。追記のみで、更新・削除はしない。
// 現在庫は常にこの行の delta の合計から求める。
type StockLedgerEntry struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Product   string            `gorm:"type:text;not null;index" json:"product"`
	Delta     decimal.Decimal   `gorm:"type:numeric;not null" json:"delta"`
	Source    LedgerSource      `gorm:"type:varchar(16);not null;index" json:"source"`
	Meta      datatypes.JSONMap `gorm:"type:jsonb" json:"meta"`
	SaleID    *uuid.UUID        `gorm:"type:uuid;uniqueIndex" json:"sale_id,omitempty"`
	CreatedAt time.Time         `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (StockLedgerEntry) TableName() string { return "stock_ledger" }

// NewLedgerEntry validates the entry and stamps its identity.
func NewLedgerEntry(id uuid.UUID, product string, delta decimal.Decimal, source LedgerSource, meta map[string]any, saleID *uuid.UUID, now time.Time) (StockLedgerEntry, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return StockLedgerEntry{}, ErrEmptyProduct
	}
	if delta.IsZero() {
		return StockLedgerEntry{}, ErrZeroDelta
	}
	if !source.Valid() {
		return StockLedgerEntry{}, ErrInvalidSource
	}
	if source == LedgerSourceRestock && delta.IsNegative() {
		return StockLedgerEntry{}, ErrDeltaSign
	}
	if source == LedgerSourceSale && delta.IsPositive() {
		return StockLedgerEntry{}, ErrDeltaSign
	}
	if meta == nil {
		meta = map[string]any{}
	}

	return StockLedgerEntry{
		ID:        id,
		Product:   product,
		Delta:     delta,
		Source:    source,
		Meta:      datatypes.JSONMap(meta),
		SaleID:    saleID,
		CreatedAt: now,
	}, nil
}

// 商品ごとの delta 合計
type StockLevel struct {
	Product string          `json:"product"`
	Qty     decimal.Decimal `json:"qty"`
}

// 現在庫ビューの1行（保存しない）
type CurrentInventoryRow struct {
	Product string          `json:"product"`
	Qty     decimal.Decimal `json:"qty"`
	Price   decimal.Decimal `json:"price"`
}
