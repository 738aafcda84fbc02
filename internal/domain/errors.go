package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrPaymentRequired = errors.New("payment required: ticket must be paid and include hotel")
)
