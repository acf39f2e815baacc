package repository

import (
	"context"
	"errors"

	"stockledger/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品カタログの参照だけを約束（書き込みは外部の管理作業）。
type ProductRepository interface {
	//商品名の完全一致（大文字小文字を区別）で1件取得
	FindByName(ctx context.Context, name string) (model.Product, error)
}

// 有効な販売担当者の一覧
type SellerRepository interface {
	ListActive(ctx context.Context) ([]model.Seller, error)
}
