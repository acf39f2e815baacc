package model

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	//販売の精算フラグ・担当者情報を更新した操作。
	AuditActionAmendSale AuditAction = "AMEND_SALE"
)

// 販売修正の監査ログ。
// 「どの販売を」「どう変えたか」を残す。
type SaleAuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	SaleID uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`

	//JSON文字列で保存する。
	AfterJSON string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (SaleAuditLog) TableName() string { return "sale_audit_logs" }
