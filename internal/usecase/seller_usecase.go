package usecase

import (
	"context"

	"stockledger/internal/domain/model"
	repo "stockledger/internal/repository"

	"go.uber.org/zap"
)

type SellerUsecase struct {
	sellers repo.SellerRepository
	log     *zap.Logger
}

func NewSellerUsecase(sellers repo.SellerRepository, log *zap.Logger) *SellerUsecase {
	return &SellerUsecase{sellers: sellers, log: log}
}

// 有効な担当者だけ、名前の昇順
func (u *SellerUsecase) ListActive(ctx context.Context) ([]model.Seller, error) {
	sellers, err := u.sellers.ListActive(ctx)
	if err != nil {
		u.log.Warn("list sellers failed", zap.Error(err))
		return nil, StorageError(err)
	}
	if sellers == nil {
		sellers = []model.Seller{}
	}
	return sellers, nil
}
