package usecase

import (
	"context"
	"time"

	"stockledger/internal/domain/model"
	"stockledger/internal/metrics"
	repo "stockledger/internal/repository"

	"go.uber.org/zap"
)

const defaultReconcileBatch = 500

type ReconcileResult struct {
	Orphans  int `json:"orphans"`
	Repaired int `json:"repaired"`
}

// 台帳行の無い販売（PartialCommit の残り）を見つけて補完する。
// 販売行は変更不可なので削除はしない。
type ReconcileUsecase struct {
	sales   repo.SaleRepository
	ledger  repo.LedgerRepository
	idGen   IDGenerator
	clock   Clock
	log     *zap.Logger
	metrics *metrics.Metrics
}

// DI
func NewReconcileUsecase(
	sales repo.SaleRepository,
	ledger repo.LedgerRepository,
	idGen IDGenerator,
	clock Clock,
	log *zap.Logger,
	m *metrics.Metrics,
) *ReconcileUsecase {
	return &ReconcileUsecase{
		sales:   sales,
		ledger:  ledger,
		idGen:   idGen,
		clock:   clock,
		log:     log,
		metrics: m,
	}
}

// grace より古く、sale_id の一致する台帳行が無い販売
func (u *ReconcileUsecase) FindOrphans(ctx context.Context, grace time.Duration, limit int) ([]model.SaleRecord, error) {
	if limit <= 0 {
		limit = defaultReconcileBatch
	}
	orphans, err := u.sales.ListOrphans(ctx, u.clock.Now().Add(-grace), limit)
	if err != nil {
		return nil, StorageError(err)
	}
	return orphans, nil
}

// 足りない台帳行（-qty）を追記する
func (u *ReconcileUsecase) Repair(ctx context.Context, sale model.SaleRecord) (model.StockLedgerEntry, error) {
	entry, err := saleLedgerEntry(u.idGen, sale)
	if err != nil {
		return model.StockLedgerEntry{}, ValidationError(err.Error())
	}
	entry.Meta["reconciled"] = true
	entry.CreatedAt = u.clock.Now()

	saved, err := u.ledger.Append(ctx, entry)
	if err != nil {
		return model.StockLedgerEntry{}, StorageError(err)
	}
	return saved, nil
}

// RunOnce scans for orphans and, when repair is set, appends their missing entries.
func (u *ReconcileUsecase) RunOnce(ctx context.Context, grace time.Duration, repair bool, limit int) (ReconcileResult, error) {
	orphans, err := u.FindOrphans(ctx, grace, limit)
	if err != nil {
		u.log.Warn("find orphan sales failed", zap.Error(err))
		return ReconcileResult{}, err
	}

	res := ReconcileResult{Orphans: len(orphans)}
	for _, s := range orphans {
		u.log.Warn("sale without ledger entry",
			zap.String("sale_id", s.ID.String()),
			zap.String("product", s.Product),
			zap.String("qty", s.Qty.String()),
			zap.Time("created_at", s.CreatedAt),
		)
		if !repair {
			continue
		}
		if _, err := u.Repair(ctx, s); err != nil {
			u.log.Error("repair sale ledger entry failed", zap.String("sale_id", s.ID.String()), zap.Error(err))
			continue
		}
		res.Repaired++
	}

	u.metrics.RecordReconcile(res.Orphans, res.Repaired)
	if res.Orphans > 0 {
		u.log.Info("reconcile finished", zap.Int("orphans", res.Orphans), zap.Int("repaired", res.Repaired))
	}
	return res, nil
}

// Run calls RunOnce every interval until ctx is canceled.
func (u *ReconcileUsecase) Run(ctx context.Context, interval, grace time.Duration, repair bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = u.RunOnce(ctx, grace, repair, defaultReconcileBatch)
		}
	}
}
