package usecase

import (
	"context"

	"stockledger/internal/domain/model"
	repo "stockledger/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type LedgerUsecase struct {
	products repo.ProductRepository
	ledger   repo.LedgerRepository
	idGen    IDGenerator
	clock    Clock
	log      *zap.Logger
}

// DI
func NewLedgerUsecase(
	products repo.ProductRepository,
	ledger repo.LedgerRepository,
	idGen IDGenerator,
	clock Clock,
	log *zap.Logger,
) *LedgerUsecase {
	return &LedgerUsecase{
		products: products,
		ledger:   ledger,
		idGen:    idGen,
		clock:    clock,
		log:      log,
	}
}

// Append writes one immutable ledger row for a known product.
func (u *LedgerUsecase) Append(ctx context.Context, product string, delta decimal.Decimal, source model.LedgerSource, meta map[string]any) (model.StockLedgerEntry, error) {
	return appendEntry(ctx, u.products, u.ledger, u.idGen, u.clock, product, delta, source, meta)
}

// 商品ごとの現在庫（delta合計）。0 や負の値もそのまま返す。
func (u *LedgerUsecase) CurrentStock(ctx context.Context, product *string) ([]model.StockLevel, error) {
	levels, err := u.ledger.SumByProduct(ctx, product)
	if err != nil {
		u.log.Warn("sum ledger failed", zap.Error(err))
		return nil, StorageError(err)
	}
	if levels == nil {
		levels = []model.StockLevel{}
	}
	return levels, nil
}

// 台帳の閲覧（監査用）
func (u *LedgerUsecase) ListEntries(ctx context.Context, in LedgerListInput) ([]model.StockLedgerEntry, error) {
	f := repo.LedgerListFilter{
		Product: optionalString(in.Product),
		Limit:   normalizeLimit(in.Limit),
	}
	if in.Source != "" {
		src := model.LedgerSource(in.Source)
		if !src.Valid() {
			return nil, ValidationError("invalid source")
		}
		f.Source = &src
	}

	entries, err := u.ledger.List(ctx, f)
	if err != nil {
		u.log.Warn("list ledger failed", zap.Error(err))
		return nil, StorageError(err)
	}
	if entries == nil {
		entries = []model.StockLedgerEntry{}
	}
	return entries, nil
}

// 台帳へ1行追記（商品の存在確認つき）
func appendEntry(
	ctx context.Context,
	products repo.ProductRepository,
	ledger repo.LedgerRepository,
	idGen IDGenerator,
	clock Clock,
	product string,
	delta decimal.Decimal,
	source model.LedgerSource,
	meta map[string]any,
) (model.StockLedgerEntry, error) {
	entry, err := model.NewLedgerEntry(idGen.New(), product, delta, source, meta, nil, clock.Now())
	if err != nil {
		return model.StockLedgerEntry{}, ValidationError(err.Error())
	}
	if _, err := lookupProduct(ctx, products, entry.Product); err != nil {
		return model.StockLedgerEntry{}, err
	}

	saved, err := ledger.Append(ctx, entry)
	if err != nil {
		return model.StockLedgerEntry{}, StorageError(err)
	}
	return saved, nil
}
