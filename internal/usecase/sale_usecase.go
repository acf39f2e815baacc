package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"stockledger/internal/domain/model"
	"stockledger/internal/metrics"
	repo "stockledger/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SaleUsecase struct {
	sales    repo.SaleRepository
	audit    repo.AuditLogRepository
	tx       repo.TransactionManager
	recorder *RecordingUsecase
	clock    Clock
	log      *zap.Logger
	metrics  *metrics.Metrics
}

// DI
func NewSaleUsecase(
	sales repo.SaleRepository,
	audit repo.AuditLogRepository,
	tx repo.TransactionManager,
	recorder *RecordingUsecase,
	clock Clock,
	log *zap.Logger,
	m *metrics.Metrics,
) *SaleUsecase {
	return &SaleUsecase{
		sales:    sales,
		audit:    audit,
		tx:       tx,
		recorder: recorder,
		clock:    clock,
		log:      log,
		metrics:  m,
	}
}

// 販売行は必ず台帳行とセットで作るので、記録ワークフローに任せる
func (u *SaleUsecase) Create(ctx context.Context, in SaleInput) (model.SaleRecord, error) {
	return u.recorder.RecordSale(ctx, in)
}

// Amend updates only the settlement and attribution fields of a sale.
// product, qty, price and total are never touched.
func (u *SaleUsecase) Amend(ctx context.Context, in AmendSaleInput) (model.SaleRecord, error) {
	rawID := strings.TrimSpace(in.ID)
	if rawID == "" {
		return model.SaleRecord{}, ValidationError("missing id")
	}
	//UUIDでないidはどの行にも一致しない
	id, err := uuid.Parse(rawID)
	if err != nil {
		return model.SaleRecord{}, NotFoundError("sale not found")
	}

	cols := in.columns()
	if len(cols) == 0 {
		return model.SaleRecord{}, ValidationError("no allowed fields to update")
	}

	var updated model.SaleRecord
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Sales().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFoundError("sale not found")
		}
		if err != nil {
			return StorageError(err)
		}

		updated, err = r.Sales().UpdateFields(ctx, id, cols)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFoundError("sale not found")
		}
		if err != nil {
			return StorageError(err)
		}

		//監査ログ（変更した列の前後）
		beforeJSON, afterJSON, err := amendSnapshots(before, cols)
		if err != nil {
			return StorageError(err)
		}
		if err := r.AuditLogs().Create(ctx, model.SaleAuditLog{
			SaleID:     id,
			Action:     model.AuditActionAmendSale,
			BeforeJSON: beforeJSON,
			AfterJSON:  afterJSON,
			CreatedAt:  u.clock.Now(),
		}); err != nil {
			return StorageError(err)
		}
		return nil
	})
	if err != nil {
		ue := toError(err)
		u.metrics.RecordFailure("amend", string(ue.Kind))
		if ue.Kind == KindStorage {
			u.log.Warn("amend sale failed", zap.String("sale_id", id.String()), zap.Error(ue))
		}
		return model.SaleRecord{}, ue
	}

	u.metrics.RecordAmend()
	u.log.Info("sale amended", zap.String("sale_id", id.String()), zap.Int("fields", len(cols)))
	return updated, nil
}

// 販売一覧（新しい順）
func (u *SaleUsecase) List(ctx context.Context, in SaleListInput) ([]model.SaleRecord, error) {
	items, err := u.sales.List(ctx, repo.SaleListFilter{
		Limit:     normalizeLimit(in.Limit),
		Seller:    optionalString(in.Seller),
		Product:   optionalString(in.Product),
		Paid:      model.ParseYesNo(in.Paid),
		Deposited: model.ParseYesNo(in.Deposited),
	})
	if err != nil {
		u.log.Warn("list sales failed", zap.Error(err))
		return nil, StorageError(err)
	}
	if items == nil {
		items = []model.SaleRecord{}
	}
	return items, nil
}

// 販売1件の修正履歴（新しい順）
func (u *SaleUsecase) History(ctx context.Context, rawID string) ([]model.SaleAuditLog, error) {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return nil, ValidationError("missing id")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, NotFoundError("sale not found")
	}

	logs, err := u.audit.ListBySale(ctx, id)
	if err != nil {
		u.log.Warn("list sale history failed", zap.String("sale_id", id.String()), zap.Error(err))
		return nil, StorageError(err)
	}
	if logs == nil {
		logs = []model.SaleAuditLog{}
	}
	return logs, nil
}

func amendSnapshots(before model.SaleRecord, cols map[string]any) (string, string, error) {
	prev := map[string]any{}
	for col := range cols {
		switch col {
		case "paid":
			prev[col] = before.Paid
		case "deposited":
			prev[col] = before.Deposited
		case "payment_method":
			prev[col] = before.PaymentMethod
		case "notes":
			prev[col] = before.Notes
		case "person":
			prev[col] = before.Person
		case "seller":
			prev[col] = before.Seller
		}
	}

	b, err := json.Marshal(prev)
	if err != nil {
		return "", "", err
	}
	a, err := json.Marshal(cols)
	if err != nil {
		return "", "", err
	}
	return string(b), string(a), nil
}
