package usecase

import (
	"context"

	"stockledger/internal/domain/model"
	repo "stockledger/internal/repository"

	"go.uber.org/zap"
)

// 現在庫ビュー。呼ばれるたびに台帳から集計する（キャッシュしない）。
type InventoryUsecase struct {
	ledger repo.LedgerRepository
	log    *zap.Logger
}

func NewInventoryUsecase(ledger repo.LedgerRepository, log *zap.Logger) *InventoryUsecase {
	return &InventoryUsecase{ledger: ledger, log: log}
}

func (u *InventoryUsecase) List(ctx context.Context) ([]model.CurrentInventoryRow, error) {
	rows, err := u.ledger.CurrentInventory(ctx)
	if err != nil {
		u.log.Warn("current inventory failed", zap.Error(err))
		return nil, StorageError(err)
	}
	if rows == nil {
		rows = []model.CurrentInventoryRow{}
	}
	return rows, nil
}
