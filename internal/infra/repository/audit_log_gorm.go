package repository

import (
	"context"

	"stockledger/internal/domain/model"
	repo "stockledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, log model.SaleAuditLog) error {
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		return err
	}
	return nil
}

func (r *auditLogGormRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]model.SaleAuditLog, error) {
	var logs []model.SaleAuditLog
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
