package usecase

import (
	"context"
	"errors"
	"strings"

	"stockledger/internal/domain/model"
	repo "stockledger/internal/repository"

	"go.uber.org/zap"
)

type CatalogUsecase struct {
	products repo.ProductRepository
	log      *zap.Logger
}

func NewCatalogUsecase(products repo.ProductRepository, log *zap.Logger) *CatalogUsecase {
	return &CatalogUsecase{products: products, log: log}
}

// Lookup finds a catalog product by exact, case-sensitive name.
func (u *CatalogUsecase) Lookup(ctx context.Context, name string) (model.Product, error) {
	p, err := lookupProduct(ctx, u.products, name)
	if ue, ok := AsError(err); ok && ue.Kind == KindStorage {
		u.log.Warn("catalog lookup failed", zap.String("product", name), zap.Error(err))
	}
	return p, err
}

// txの中でも外でも同じ判定にする
func lookupProduct(ctx context.Context, products repo.ProductRepository, name string) (model.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Product{}, ValidationError("product required")
	}

	p, err := products.FindByName(ctx, name)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NotFoundError("unknown product")
	}
	if err != nil {
		return model.Product{}, StorageError(err)
	}
	return p, nil
}
