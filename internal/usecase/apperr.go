package usecase

import (
	"errors"
	"fmt"
)

// エラー種別。orchestratorは種別を変えずに呼び出し元へ返す。
type ErrorKind string

const (
	KindInvalidInput            ErrorKind = "INVALID_INPUT"
	KindNotFound                ErrorKind = "NOT_FOUND"
	KindInsufficientStock       ErrorKind = "INSUFFICIENT_STOCK"
	KindExceedsOriginalQuantity ErrorKind = "EXCEEDS_ORIGINAL_QUANTITY"
	KindConflict                ErrorKind = "CONFLICT"
	KindInternal                ErrorKind = "INTERNAL"
)

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewAppError(kind ErrorKind, message string) error {
	return &AppError{
		Kind:    kind,
		Message: message,
	}
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}
