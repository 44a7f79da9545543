package domain

import (
	"testing"
	"time"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name       string
		activeTier int
		paidTier   int
		want       Decision
	}{
		{"same tier replaces", 2, 2, DecisionReplace},
		{"higher tier replaces", 1, 3, DecisionReplace},
		{"lower tier queues", 3, 1, DecisionQueue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.activeTier, tc.paidTier); got != tc.want {
				t.Fatalf("Decide(%d, %d) = %v, want %v", tc.activeTier, tc.paidTier, got, tc.want)
			}
		})
	}
}

func TestCanPurchase(t *testing.T) {
	if !CanPurchase(1, 2) {
		t.Fatal("upgrade must be allowed")
	}
	if !CanPurchase(2, 2) {
		t.Fatal("renewal at same tier must be allowed")
	}
	if CanPurchase(3, 1) {
		t.Fatal("downgrade during active term must be rejected")
	}
}

func TestPeriodFor(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, end := PeriodFor(start, 6)
	if want := start.Add(180 * 24 * time.Hour); !end.Equal(want) {
		t.Fatalf("6 months must be 180 days, got end %v", end)
	}

	_, end = PeriodFor(start, 0)
	if want := start.Add(30 * 24 * time.Hour); !end.Equal(want) {
		t.Fatalf("zero months falls back to one, got end %v", end)
	}
}

func TestCurrent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sub := Subscription{
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(24 * time.Hour),
		IsActive:  true,
	}
	if !sub.Current(now) {
		t.Fatal("expected current")
	}

	sub.IsActive = false
	if sub.Current(now) {
		t.Fatal("inactive subscription must not be current")
	}

	sub.IsActive = true
	if sub.Current(now.Add(48 * time.Hour)) {
		t.Fatal("expired subscription must not be current")
	}
	if sub.Current(now.Add(-48 * time.Hour)) {
		t.Fatal("queued subscription must not be current before start")
	}
}
