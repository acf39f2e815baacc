package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 保存時の文字数上限
const (
	MaxNotesLen         = 500
	MaxPaymentMethodLen = 120
	MaxPersonLen        = 120
	MaxSellerLen        = 120
)

var (
	ErrInvalidQty   = errors.New("qty must be > 0")
	ErrInvalidPrice = errors.New("price must be >= 0")
)

// 販売1件。product/qty/price/total は作成後に変更しない。
// price は販売時点の単価（カタログの現在価格とは別物）。
type SaleRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime;index" json:"created_at"`
	Product       string          `gorm:"type:text;not null;index" json:"product"`
	Qty           decimal.Decimal `gorm:"type:numeric;not null" json:"qty"`
	Price         decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Total         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	Paid          bool            `gorm:"not null;default:false;index" json:"paid"`
	Deposited     bool            `gorm:"not null;default:false;index" json:"deposited"`
	Person        string          `gorm:"type:text;not null;default:''" json:"person"`
	Seller        string          `gorm:"type:text;not null;default:'';index" json:"seller"`
	PaymentMethod string          `gorm:"type:text;not null;default:''" json:"payment_method"`
	Notes         string          `gorm:"type:varchar(500);not null;default:''" json:"notes"`
}

func (SaleRecord) TableName() string { return "sales" }

// 精算フラグと担当者情報
type Settlement struct {
	Paid          bool
	Deposited     bool
	Person        string
	Seller        string
	PaymentMethod string
	Notes         string
}

// SaleTotal is qty x unit price rounded to cents.
func SaleTotal(qty, unitPrice decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitPrice).Round(2)
}

// NewSaleRecord builds an immutable sale row. total is computed here once and never again.
func NewSaleRecord(id uuid.UUID, product string, qty, unitPrice decimal.Decimal, s Settlement, now time.Time) (SaleRecord, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return SaleRecord{}, ErrEmptyProduct
	}
	if !qty.IsPositive() {
		return SaleRecord{}, ErrInvalidQty
	}
	if unitPrice.IsNegative() {
		return SaleRecord{}, ErrInvalidPrice
	}

	return SaleRecord{
		ID:            id,
		CreatedAt:     now,
		Product:       product,
		Qty:           qty,
		Price:         unitPrice,
		Total:         SaleTotal(qty, unitPrice),
		Paid:          s.Paid,
		Deposited:     s.Deposited,
		Person:        strings.TrimSpace(s.Person),
		Seller:        strings.TrimSpace(s.Seller),
		PaymentMethod: strings.TrimSpace(s.PaymentMethod),
		Notes:         Truncate(s.Notes, MaxNotesLen),
	}, nil
}

// 台帳 meta に残すスナップショット
func (s SaleRecord) LedgerMeta() map[string]any {
	return map[string]any{
		"unitPrice":      s.Price,
		"total":          s.Total,
		"paid":           s.Paid,
		"deposited":      s.Deposited,
		"person":         s.Person,
		"seller":         s.Seller,
		"payment_method": s.PaymentMethod,
		"notes":          s.Notes,
	}
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
