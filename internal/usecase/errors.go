package usecase

import (
	"errors"
	"fmt"
)

// エラー種別。HTTPステータスへの対応付けはhandler側で行う。
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindInvalidInput
	KindInvalidState
	KindInvalidAmount
	KindEmptyCart
	KindUnavailable
	KindConflict
	KindUnauthorized
	KindForbidden
	KindTransactionFailure
	KindInternal
)

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewError(kind ErrorKind, format string, args ...any) error {
	return &AppError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// DBエラーをそのまま外へ出さないための共通形
func internalError() error {
	return NewError(KindInternal, "db error")
}
