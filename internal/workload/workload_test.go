package workload

import (
	"context"
	"testing"
	"time"
)

func TestSourceEmitsAllUnitsInOrder(t *testing.T) {
	src := New(Config{Units: 5, Interval: time.Millisecond, Seed: 1})

	var got []int
	for i := range src.Run(context.Background()) {
		got = append(got, i)
	}

	if len(got) != 5 {
		t.Fatalf("received %d units, want 5", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Errorf("unit %d = %d, want %d", i, v, i)
		}
	}
}

func TestSourceZeroUnits(t *testing.T) {
	tests := []struct {
		name  string
		units int
	}{
		{name: "zero", units: 0},
		{name: "negative clamps to zero", units: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := New(Config{Units: tt.units, Interval: time.Millisecond})
			count := 0
			for range src.Run(context.Background()) {
				count++
			}
			if count != 0 {
				t.Errorf("received %d units, want 0", count)
			}
		})
	}
}

func TestSourceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := New(Config{Units: 1000, Interval: 5 * time.Millisecond, Seed: 1})

	ch := src.Run(ctx)
	<-ch // wait for the first unit so the source is mid-flight
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, open := <-ch:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("source did not stop after context cancellation")
		}
	}
}

func TestSourceJitterStaysBounded(t *testing.T) {
	const units = 10
	src := New(Config{
		Units:    units,
		Interval: time.Millisecond,
		Jitter:   2 * time.Millisecond,
		Seed:     42,
	})

	start := time.Now()
	count := 0
	for range src.Run(context.Background()) {
		count++
	}
	elapsed := time.Since(start)

	if count != units {
		t.Fatalf("received %d units, want %d", count, units)
	}
	// Loose bound: only a runaway sleep should ever exceed it.
	if max := time.Duration(units) * 50 * time.Millisecond; elapsed > max {
		t.Errorf("run took %v, want under %v", elapsed, max)
	}
}
