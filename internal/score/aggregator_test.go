package score

import (
	"context"
	"fmt"
	"testing"
)

// fakeEventStore records recompute calls.
type fakeEventStore struct {
	present bool
	err     error
	calls   int
}

func (f *fakeEventStore) RecomputeEventScores(id string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.present, nil
}

func TestAggregator_Recompute(t *testing.T) {
	store := &fakeEventStore{present: true}
	agg := NewAggregator(store)

	if err := agg.Recompute(context.Background(), "e1"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if store.calls != 1 {
		t.Errorf("Expected 1 recompute call, got %d", store.calls)
	}
}

func TestAggregator_MissingEventIsNoOp(t *testing.T) {
	store := &fakeEventStore{present: false}
	agg := NewAggregator(store)

	if err := agg.Recompute(context.Background(), "gone"); err != nil {
		t.Fatalf("Expected missing event to be a no-op, got %v", err)
	}
}

func TestAggregator_StoreErrorPropagates(t *testing.T) {
	store := &fakeEventStore{err: fmt.Errorf("disk gone")}
	agg := NewAggregator(store)

	if err := agg.Recompute(context.Background(), "e1"); err == nil {
		t.Fatal("Expected error from recompute failure")
	}
}

func TestAggregator_CancelledContext(t *testing.T) {
	store := &fakeEventStore{present: true}
	agg := NewAggregator(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := agg.Recompute(ctx, "e1"); err == nil {
		t.Fatal("Expected context error")
	}
	if store.calls != 0 {
		t.Errorf("Expected no recompute after cancellation, got %d", store.calls)
	}
}
