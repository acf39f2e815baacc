package model

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// 数値入力。JSONの数値と数値文字列を受け付け、それ以外は「数値でない」扱い（Valid=false）。
// デコードでエラーにはしない。
type Number struct {
	Value decimal.Decimal
	Valid bool
}

func NewNumber(v decimal.Decimal) Number {
	return Number{Value: v, Valid: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}

	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	*n = Number{Value: d, Valid: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Value.MarshalJSON()
}

// 真偽値入力。true/false または "yes"（大文字小文字を区別しない）を true とする。
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	*f = false

	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case bool:
		*f = Flag(t)
	case string:
		*f = Flag(strings.ToLower(t) == "yes")
	}
	return nil
}

// 一覧の tri-state 絞り込み（"Yes" / "No" / 未指定）
func ParseYesNo(s string) *bool {
	switch s {
	case "Yes":
		b := true
		return &b
	case "No":
		b := false
		return &b
	default:
		return nil
	}
}
