package model

import "github.com/shopspring/decimal"

// 販売可能な商品と正規単価。
// このサービスからは読み取り専用（登録・更新は外部の管理作業）。
type Product struct {
	Name  string          `gorm:"column:product;primaryKey;type:text" json:"product"`
	Price decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
}

func (Product) TableName() string { return "products" }

// 販売担当者（sellers-list 用）
type Seller struct {
	Name   string `gorm:"primaryKey;type:text" json:"name"`
	Active bool   `gorm:"not null;default:true;index" json:"active"`
}

func (Seller) TableName() string { return "sellers" }
