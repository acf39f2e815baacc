package repository

import (
	"context"

	"stockledger/internal/domain/model"
)

// 台帳一覧の絞り込み条件
type LedgerListFilter struct {
	Product *string
	Source  *model.LedgerSource
	Limit   int
}

// 在庫台帳は追記のみ。更新・削除のメソッドは用意しない。
type LedgerRepository interface {
	Append(ctx context.Context, entry model.StockLedgerEntry) (model.StockLedgerEntry, error)

	//商品ごとの delta 合計（product 指定時はその商品だけ）。商品名の昇順。
	SumByProduct(ctx context.Context, product *string) ([]model.StockLevel, error)

	//delta 合計 + カタログ現在価格。商品名の昇順。
	CurrentInventory(ctx context.Context) ([]model.CurrentInventoryRow, error)

	//新しい順
	List(ctx context.Context, f LedgerListFilter) ([]model.StockLedgerEntry, error)
}
