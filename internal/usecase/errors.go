package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type ErrorKind string

const (
	//400 入力不正
	KindValidation ErrorKind = "validation"
	//404 商品・販売が無い
	KindNotFound ErrorKind = "not_found"
	//500 ストア障害（リトライ可）
	KindStorage ErrorKind = "storage"
	//500 販売行は保存済み、台帳行は未保存
	KindPartialCommit ErrorKind = "partial_commit"
)

// usecaseが返すエラー。handlerはKindでステータスを決める。
type Error struct {
	Kind    ErrorKind
	Message string
	SaleID  *uuid.UUID
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func ValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFoundError(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func StorageError(err error) error {
	return &Error{Kind: KindStorage, Message: "db error", Err: err}
}

// 販売行だけ保存できた。台帳の追記は行われていない。
func PartialCommitError(saleID uuid.UUID, err error) error {
	id := saleID
	return &Error{
		Kind:    KindPartialCommit,
		Message: "sale recorded but ledger entry failed",
		SaleID:  &id,
		Err:     err,
	}
}

func AsError(err error) (*Error, bool) {
	var ue *Error
	ok := errors.As(err, &ue)
	return ue, ok
}

// *Error 以外はストア障害として扱う
func toError(err error) *Error {
	if ue, ok := AsError(err); ok {
		return ue
	}
	ue, _ := AsError(StorageError(err))
	return ue
}
