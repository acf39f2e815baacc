package validator

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"stockledger/internal/domain/model"

	playground "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// 入力が不正
var ErrInvalidInput = errors.New("invalid input")

// 項目名 -> 失敗したタグ
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return "missing/invalid " + strings.Join(e.Fields(), "/")
}

func (e FieldErrors) Is(target error) bool {
	return target == ErrInvalidInput
}

// 項目名の昇順
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

type InputValidator struct {
	v *playground.Validate
}

func New() *InputValidator {
	v := playground.New(playground.WithRequiredStructEnabled())

	// decimal / model.Number は float64 として検証する（数値でなければ nil）
	v.RegisterCustomTypeFunc(numberValue, model.Number{}, decimal.Decimal{})

	// エラーの項目名は json 名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &InputValidator{v: v}
}

// Struct validates s and returns FieldErrors on failure.
func (iv *InputValidator) Struct(s any) error {
	err := iv.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func numberValue(field reflect.Value) interface{} {
	switch v := field.Interface().(type) {
	case model.Number:
		if !v.Valid {
			return nil
		}
		f, _ := v.Value.Float64()
		return f
	case decimal.Decimal:
		f, _ := v.Float64()
		return f
	}
	return nil
}
