package repository

import (
	"context"

	"stockledger/internal/domain/model"
	repo "stockledger/internal/repository"

	"gorm.io/gorm"
)

type LedgerGormRepository struct {
	db *gorm.DB
}

func NewLedgerGormRepository(db *gorm.DB) *LedgerGormRepository {
	return &LedgerGormRepository{db: db}
}

// 台帳に1行追記
func (r *LedgerGormRepository) Append(ctx context.Context, entry model.StockLedgerEntry) (model.StockLedgerEntry, error) {
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return model.StockLedgerEntry{}, err
	}
	return entry, nil
}

// 商品ごとの delta 合計。毎回集計する（キャッシュしない）
func (r *LedgerGormRepository) SumByProduct(ctx context.Context, product *string) ([]model.StockLevel, error) {
	q := r.db.WithContext(ctx).
		Model(&model.StockLedgerEntry{}).
		Select("product, COALESCE(SUM(delta), 0) AS qty")

	if product != nil {
		q = q.Where("product = ?", *product)
	}

	var levels []model.StockLevel
	if err := q.Group("product").Order("product asc").Scan(&levels).Error; err != nil {
		return []model.StockLevel{}, err
	}
	return levels, nil
}

// 台帳の集計にカタログの現在価格を付ける
func (r *LedgerGormRepository) CurrentInventory(ctx context.Context) ([]model.CurrentInventoryRow, error) {
	var rows []model.CurrentInventoryRow
	err := r.db.WithContext(ctx).
		Table("stock_ledger AS l").
		Select("l.product AS product, COALESCE(SUM(l.delta), 0) AS qty, COALESCE(p.price, 0) AS price").
		Joins("LEFT JOIN products p ON p.product = l.product").
		Group("l.product, p.price").
		Order("l.product asc").
		Scan(&rows).Error
	if err != nil {
		return []model.CurrentInventoryRow{}, err
	}
	return rows, nil
}

func (r *LedgerGormRepository) List(ctx context.Context, f repo.LedgerListFilter) ([]model.StockLedgerEntry, error) {
	q := r.db.WithContext(ctx).Model(&model.StockLedgerEntry{})

	if f.Product != nil {
		q = q.Where("product = ?", *f.Product)
	}
	if f.Source != nil {
		q = q.Where("source = ?", *f.Source)
	}

	var entries []model.StockLedgerEntry
	if err := q.Order("created_at desc").Limit(f.Limit).Find(&entries).Error; err != nil {
		return []model.StockLedgerEntry{}, err
	}
	return entries, nil
}
