package domain

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusCancelled, StatusCompleted, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestComputeTotal(t *testing.T) {
	lines := []OrderLine{
		{Quantity: 3, UnitPrice: 2.5},
		{Quantity: 1, UnitPrice: 10},
	}
	if got := ComputeTotal(lines); got != 17.5 {
		t.Errorf("ComputeTotal = %v, want 17.5", got)
	}
	if got := ComputeTotal(nil); got != 0 {
		t.Errorf("ComputeTotal(nil) = %v, want 0", got)
	}
}

func TestValidType(t *testing.T) {
	if !ValidType(TypePurchase) || !ValidType(TypeSale) {
		t.Error("known types rejected")
	}
	if ValidType("TRANSFER") {
		t.Error("unknown type accepted")
	}
}
