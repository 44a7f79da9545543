package domain

// Decision says how a freshly paid entitlement combines with the
// user's currently active one.
type Decision int

const (
	// DecisionReplace deactivates the current entitlement and starts
	// the new one immediately. Applies when the paid tier is the same
	// or higher.
	DecisionReplace Decision = iota
	// DecisionQueue schedules the new entitlement to start when the
	// current one ends. Applies when the paid tier is lower.
	DecisionQueue
)

// Decide compares the active bundle's tier with the paid bundle's tier.
func Decide(activeTier, paidTier int) Decision {
	if activeTier > paidTier {
		return DecisionQueue
	}
	return DecisionReplace
}

// CanPurchase reports whether a checkout for newTier may start while a
// subscription of activeTier is running. Buying a lower tier is
// rejected up front so the customer is not charged for an entitlement
// that would only begin months later.
func CanPurchase(activeTier, newTier int) bool {
	return newTier >= activeTier
}
