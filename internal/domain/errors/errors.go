package errors

import "errors"

var (
	ErrAlreadyExists  = errors.New("already exists")
	ErrNotFound       = errors.New("not found")
	ErrUnknownWallet  = errors.New("unknown wallet brand")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNoPendingOrder = errors.New("no pending payment")
	ErrNoOrderNumber  = errors.New("no order number")
	ErrHandleConsumed = errors.New("pending payment already consumed")
)
