package repository

import (
	"context"
	"time"

	"stockledger/internal/domain/model"

	"github.com/google/uuid"
)

type SaleListFilter struct {
	Limit     int
	Seller    *string
	Product   *string
	Paid      *bool
	Deposited *bool
}

type SaleRepository interface {
	Create(ctx context.Context, sale model.SaleRecord) (model.SaleRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (model.SaleRecord, error)

	//許可された列だけ更新して、更新後の行を返す
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (model.SaleRecord, error)

	//新しい順
	List(ctx context.Context, f SaleListFilter) ([]model.SaleRecord, error)

	//台帳行（sale_id一致）が無いまま createdBefore より古い販売
	ListOrphans(ctx context.Context, createdBefore time.Time, limit int) ([]model.SaleRecord, error)
}
