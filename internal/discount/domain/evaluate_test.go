package domain

import "testing"

func intPtr(v int) *int { return &v }

func standardRules() []Rule {
	return []Rule{
		{Name: "6-Month Discount", MinMonths: 6, MaxMonths: intPtr(11), DiscountPercentage: 10, IsActive: true},
		{Name: "12-Month Discount", MinMonths: 12, MaxMonths: nil, DiscountPercentage: 20, IsActive: true},
	}
}

func TestEvaluateNoMatch(t *testing.T) {
	if got := Evaluate(standardRules(), 1); got != 0 {
		t.Fatalf("expected 0%% for 1 month, got %d", got)
	}
}

func TestEvaluateBoundedRange(t *testing.T) {
	rules := standardRules()
	for _, months := range []int{6, 7, 11} {
		if got := Evaluate(rules, months); got != 10 {
			t.Fatalf("expected 10%% for %d months, got %d", months, got)
		}
	}
}

func TestEvaluateOpenEndedRange(t *testing.T) {
	rules := standardRules()
	for _, months := range []int{12, 24, 36} {
		if got := Evaluate(rules, months); got != 20 {
			t.Fatalf("expected 20%% for %d months, got %d", months, got)
		}
	}
}

func TestEvaluateIgnoresInactiveRules(t *testing.T) {
	rules := []Rule{
		{MinMonths: 1, DiscountPercentage: 50, IsActive: false},
		{MinMonths: 6, DiscountPercentage: 10, IsActive: true},
	}
	if got := Evaluate(rules, 6); got != 10 {
		t.Fatalf("expected 10%%, got %d", got)
	}
}

func TestEvaluatePicksHighestPercentage(t *testing.T) {
	rules := []Rule{
		{MinMonths: 3, DiscountPercentage: 5, IsActive: true},
		{MinMonths: 6, DiscountPercentage: 15, IsActive: true},
	}
	if got := Evaluate(rules, 6); got != 15 {
		t.Fatalf("expected 15%%, got %d", got)
	}
}

func TestEvaluateTieBreaksOnLowerMinMonths(t *testing.T) {
	rules := []Rule{
		{MinMonths: 6, DiscountPercentage: 10, IsActive: true},
		{MinMonths: 3, DiscountPercentage: 10, IsActive: true},
	}
	// Order in the slice must not matter.
	if got := Evaluate(rules, 6); got != 10 {
		t.Fatalf("expected 10%%, got %d", got)
	}
	reversed := []Rule{rules[1], rules[0]}
	if got := Evaluate(reversed, 6); got != 10 {
		t.Fatalf("expected 10%% regardless of order, got %d", got)
	}
}

func TestApplyDiscount(t *testing.T) {
	cases := []struct {
		amount     int64
		percentage int
		want       int64
	}{
		{1000, 0, 1000},
		{6000, 10, 5400},
		{12000, 20, 9600},
		{999, 10, 900}, // discount truncates toward zero
	}
	for _, tc := range cases {
		if got := ApplyDiscount(tc.amount, tc.percentage); got != tc.want {
			t.Fatalf("ApplyDiscount(%d, %d) = %d, want %d", tc.amount, tc.percentage, got, tc.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	bounded := Rule{MinMonths: 6, MaxMonths: intPtr(11)}
	open := Rule{MinMonths: 12}

	if Overlaps(bounded, open) {
		t.Fatal("6-11 must not overlap 12+")
	}
	if !Overlaps(open, Rule{MinMonths: 24}) {
		t.Fatal("12+ must overlap 24+")
	}
	if !Overlaps(bounded, Rule{MinMonths: 11, MaxMonths: intPtr(12)}) {
		t.Fatal("6-11 must overlap 11-12")
	}
}

func TestRangeDisplay(t *testing.T) {
	if got := (Rule{MinMonths: 6, MaxMonths: intPtr(11)}).RangeDisplay(); got != "6-11 months" {
		t.Fatalf("got %q", got)
	}
	if got := (Rule{MinMonths: 12}).RangeDisplay(); got != "12+ months" {
		t.Fatalf("got %q", got)
	}
	if got := (Rule{MinMonths: 6, MaxMonths: intPtr(6)}).RangeDisplay(); got != "6 months" {
		t.Fatalf("got %q", got)
	}
}
