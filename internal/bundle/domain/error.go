package domain

import "errors"

var (
	ErrBundleNotFound = errors.New("bundle not found")
	ErrInvalidBundle  = errors.New("invalid bundle")
)
