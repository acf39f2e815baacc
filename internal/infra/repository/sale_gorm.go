package repository

import (
	"context"
	"errors"
	"time"

	"stockledger/internal/domain/model"
	repo "stockledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleGormRepository struct {
	db *gorm.DB
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

func (r *SaleGormRepository) Create(ctx context.Context, sale model.SaleRecord) (model.SaleRecord, error) {
	if err := r.db.WithContext(ctx).Create(&sale).Error; err != nil {
		return model.SaleRecord{}, err
	}
	return sale, nil
}

func (r *SaleGormRepository) FindByID(ctx context.Context, id uuid.UUID) (model.SaleRecord, error) {
	var s model.SaleRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.SaleRecord{}, repo.ErrNotFound
	}
	if err != nil {
		return model.SaleRecord{}, err
	}
	return s, nil
}

// UPDATE ... RETURNING で更新後の行を受け取る
func (r *SaleGormRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (model.SaleRecord, error) {
	var s model.SaleRecord
	res := r.db.WithContext(ctx).
		Model(&s).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(fields)

	if res.Error != nil {
		return model.SaleRecord{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.SaleRecord{}, repo.ErrNotFound
	}
	return s, nil
}

func (r *SaleGormRepository) List(ctx context.Context, f repo.SaleListFilter) ([]model.SaleRecord, error) {
	q := r.db.WithContext(ctx).Model(&model.SaleRecord{})

	if f.Seller != nil {
		q = q.Where("seller = ?", *f.Seller)
	}
	if f.Product != nil {
		q = q.Where("product = ?", *f.Product)
	}
	if f.Paid != nil {
		q = q.Where("paid = ?", *f.Paid)
	}
	if f.Deposited != nil {
		q = q.Where("deposited = ?", *f.Deposited)
	}

	var sales []model.SaleRecord
	if err := q.Order("created_at desc").Limit(f.Limit).Find(&sales).Error; err != nil {
		return []model.SaleRecord{}, err
	}
	return sales, nil
}

func (r *SaleGormRepository) ListOrphans(ctx context.Context, createdBefore time.Time, limit int) ([]model.SaleRecord, error) {
	var sales []model.SaleRecord
	err := r.db.WithContext(ctx).
		Model(&model.SaleRecord{}).
		Select("sales.*").
		Joins("LEFT JOIN stock_ledger l ON l.sale_id = sales.id").
		Where("l.id IS NULL AND sales.created_at < ?", createdBefore).
		Order("sales.created_at asc").
		Limit(limit).
		Find(&sales).Error
	if err != nil {
		return []model.SaleRecord{}, err
	}
	return sales, nil
}
