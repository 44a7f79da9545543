package domain

import "errors"

var (
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrInvalidMonths       = errors.New("months must be 1, 6, or 12")
	ErrHigherTierActive    = errors.New("a higher tier subscription is already active")
	ErrMissingSignature    = errors.New("missing webhook signature")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrInvalidPayload      = errors.New("invalid webhook payload")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
)
