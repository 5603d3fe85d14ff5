package health

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"redwatch/internal/model"
)

func newPool(names ...string) []model.Account {
	accounts := make([]model.Account, len(names))
	for i, n := range names {
		accounts[i] = model.Account{Name: n, BearerToken: "token-" + n}
	}
	return accounts
}

func TestRecordFailureDisablesAtThreshold(t *testing.T) {
	tr := NewTracker(newPool("a"), 3)

	if disabled := tr.RecordFailure(0); disabled {
		t.Fatal("disabled after 1 failure")
	}
	if disabled := tr.RecordFailure(0); disabled {
		t.Fatal("disabled after 2 failures")
	}
	if disabled := tr.RecordFailure(0); !disabled {
		t.Fatal("expected disable transition on 3rd failure")
	}
	if got := tr.Account(0).Status; got != model.StatusDisabled {
		t.Errorf("status = %q, want %q", got, model.StatusDisabled)
	}

	// Further failures must not report the transition again.
	if disabled := tr.RecordFailure(0); disabled {
		t.Error("disable transition reported twice")
	}
}

func TestSuccessResetsCounter(t *testing.T) {
	tests := []struct {
		name   string
		record func(tr *Tracker) bool
	}{
		{"success", func(tr *Tracker) bool { return tr.RecordSuccess(0) }},
		{"rate limited", func(tr *Tracker) bool { return tr.RecordRateLimited(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(newPool("a"), 3)
			tr.RecordFailure(0)
			tr.RecordFailure(0)

			if recovered := tt.record(tr); !recovered {
				t.Error("expected recovery after non-zero failure count")
			}
			if got := tr.Account(0).Failures; got != 0 {
				t.Errorf("failures = %d, want 0", got)
			}

			// Counter restarts: two more failures are below the threshold.
			tr.RecordFailure(0)
			if disabled := tr.RecordFailure(0); disabled {
				t.Error("disabled before reaching threshold after reset")
			}
			if got := tr.Account(0).Status; got != model.StatusActive {
				t.Errorf("status = %q, want %q", got, model.StatusActive)
			}
		})
	}
}

func TestRecordSuccessIdempotent(t *testing.T) {
	tr := NewTracker(newPool("a"), 3)
	if recovered := tr.RecordSuccess(0); recovered {
		t.Error("recovery reported with a clean counter")
	}
	if recovered := tr.RecordSuccess(0); recovered {
		t.Error("recovery reported on repeated success")
	}
}

func TestNextActive(t *testing.T) {
	tests := []struct {
		name     string
		disable  []int
		current  int
		want     int
	}{
		{name: "first selection", current: -1, want: 0},
		{name: "advances past current", current: 0, want: 1},
		{name: "wraps around", current: 2, want: 0},
		{name: "skips disabled", disable: []int{1}, current: 0, want: 2},
		{name: "wraps past disabled", disable: []int{0}, current: 2, want: 1},
		{name: "only one left", disable: []int{0, 2}, current: 1, want: 1},
		{name: "all disabled", disable: []int{0, 1, 2}, current: 1, want: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(newPool("a", "b", "c"), 3)
			for _, i := range tt.disable {
				for f := 0; f < 3; f++ {
					tr.RecordFailure(i)
				}
			}
			if got := tr.NextActive(tt.current); got != tt.want {
				t.Errorf("NextActive(%d) = %d, want %d", tt.current, got, tt.want)
			}
		})
	}
}

func TestNextActiveVisitsEachAccountOnce(t *testing.T) {
	tr := NewTracker(newPool("a", "b", "c", "d"), 3)

	current := -1
	var order []int
	for i := 0; i < 8; i++ {
		current = tr.NextActive(current)
		order = append(order, current)
	}

	want := []int{0, 1, 2, 3, 0, 1, 2, 3}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("rotation order mismatch (-want +got):\n%s", diff)
	}
}

func TestNextActiveEmptyPool(t *testing.T) {
	tr := NewTracker(nil, 3)
	if got := tr.NextActive(-1); got != None {
		t.Errorf("NextActive on empty pool = %d, want %d", got, None)
	}
}

func TestActiveCount(t *testing.T) {
	tr := NewTracker(newPool("a", "b", "c"), 2)
	if got := tr.ActiveCount(); got != 3 {
		t.Fatalf("ActiveCount = %d, want 3", got)
	}
	tr.RecordFailure(1)
	tr.RecordFailure(1)
	if got := tr.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount after disable = %d, want 2", got)
	}
}
