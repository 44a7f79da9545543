package domain

import "errors"

var (
	ErrContactNotFound    = errors.New("contact request not found")
	ErrInvalidSubmission  = errors.New("invalid contact submission")
	ErrInvalidStatus      = errors.New("invalid contact status")
	ErrInvalidNote        = errors.New("invalid note")
	ErrLeadAccessDenied   = errors.New("lead access denied")
	ErrNotAssigned        = errors.New("lead is not assigned to you")
	ErrNotSalesman        = errors.New("user does not have salesman role")
	ErrAssignmentNotFound = errors.New("lead assignment not found")
)
