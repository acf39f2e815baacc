package repository

import (
	"context"

	"stockledger/internal/domain/model"

	"github.com/google/uuid"
)

// 販売修正の監査ログの保存・取得の約束。
type AuditLogRepository interface {
	Create(ctx context.Context, log model.SaleAuditLog) error

	//新しい順
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]model.SaleAuditLog, error)
}
