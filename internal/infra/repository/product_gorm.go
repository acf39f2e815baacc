package repository

import (
	"context"
	"errors"

	"stockledger/internal/domain/model"
	repo "stockledger/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 商品名で取得（完全一致・大文字小文字を区別）
func (r *ProductGormRepository) FindByName(ctx context.Context, name string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("product = ?", name).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

type SellerGormRepository struct {
	db *gorm.DB
}

func NewSellerGormRepository(db *gorm.DB) *SellerGormRepository {
	return &SellerGormRepository{db: db}
}

func (r *SellerGormRepository) ListActive(ctx context.Context) ([]model.Seller, error) {
	var sellers []model.Seller
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name asc").
		Find(&sellers).Error
	if err != nil {
		return []model.Seller{}, err
	}
	return sellers, nil
}
