package blockchain

import "errors"

var (
	ErrEmptyAddress    = errors.New("transaction address is empty")
	ErrInvalidAmount   = errors.New("transaction amount must be positive and finite")
	ErrReservedAddress = errors.New("sender address is reserved for mining rewards")
)
