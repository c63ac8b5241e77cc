package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/psantana5/etatrack/internal/logging"
)

func TestShutdownRunsLIFO(t *testing.T) {
	m := New(time.Second, logging.Nop())

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		m.Register(func(context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	m.Shutdown()

	want := []int{2, 1, 0}
	if len(order) != len(want) {
		t.Fatalf("ran %d functions, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("shutdown order = %v, want %v", order, want)
		}
	}
}

func TestShutdownContinuesPastErrors(t *testing.T) {
	m := New(time.Second, logging.Nop())

	ran := false
	m.Register(func(context.Context) error {
		ran = true
		return nil
	})
	m.Register(func(context.Context) error {
		return errors.New("boom")
	})

	m.Shutdown()

	if !ran {
		t.Error("earlier function did not run after a later one failed")
	}
}

func TestTriggerClosesDoneOnce(t *testing.T) {
	m := New(time.Second, logging.Nop())

	m.Trigger()
	m.Trigger() // must not panic

	select {
	case <-m.Done():
	default:
		t.Error("Done() not closed after Trigger()")
	}
}

func TestRegisterHTTPServer(t *testing.T) {
	m := New(time.Second, logging.Nop())

	stopped := false
	m.RegisterHTTPServer("test", stubServer{stop: func() { stopped = true }})
	m.Shutdown()

	if !stopped {
		t.Error("registered server was not shut down")
	}
}

type stubServer struct{ stop func() }

func (s stubServer) Shutdown(context.Context) error {
	s.stop()
	return nil
}
