package usecase

import (
	"time"

	"github.com/google/uuid"
)

// ID生成の約束（テストで固定できるように）
type IDGenerator interface {
	New() uuid.UUID
}

// 現在時刻の約束
type Clock interface {
	Now() time.Time
}

// 入力検証の約束
type InputValidator interface {
	Struct(s any) error
}

type UUIDGenerator struct{}

func (UUIDGenerator) New() uuid.UUID { return uuid.New() }

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
