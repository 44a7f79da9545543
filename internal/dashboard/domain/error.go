package domain

import "errors"

var (
	ErrDashboardNotFound = errors.New("dashboard not found")
	ErrInvalidURL        = errors.New("invalid dashboard url")
)
