package ratelimit

import "time"

// Rule names an endpoint's throttle budget.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Budgets for the public endpoints. Login and register share their
// shape; the contact form is tightest because it triggers email.
var (
	RuleLogin         = Rule{Name: "login", Limit: 5, Window: time.Minute}
	RuleRegister      = Rule{Name: "register", Limit: 5, Window: time.Minute}
	RulePaymentIntent = Rule{Name: "payment_intent", Limit: 10, Window: time.Minute}
	RuleContactSubmit = Rule{Name: "contact_submit", Limit: 3, Window: 5 * time.Minute}
)
