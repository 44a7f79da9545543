package domain

import "errors"

var (
	ErrRuleNotFound   = errors.New("discount rule not found")
	ErrInvalidRange   = errors.New("invalid month range")
	ErrInvalidPercent = errors.New("discount percentage must be between 0 and 100")
	ErrRuleOverlap    = errors.New("discount rule overlaps with an existing rule")
)
