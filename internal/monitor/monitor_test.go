package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matiasleandrokruk/coffee-api/internal/infra/eventbus"
)

// scriptedProber returns the scripted values in order, then repeats the last.
type scriptedProber struct {
	mu     sync.Mutex
	values []bool
	calls  int
}

func (p *scriptedProber) Probe(context.Context, int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := p.values[min(p.calls, len(p.values)-1)]
	p.calls++
	return v
}

func (p *scriptedProber) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestCheck_PublishesTransitionsOnly(t *testing.T) {
	t.Parallel()

	bus := eventbus.New()
	ch := bus.Subscribe(TopicBackendStatusChanged)
	m := New(&scriptedProber{values: []bool{true, true, false, false, true}}, bus, nil)
	ctx := context.Background()

	wantChanged := []bool{true, false, true, false, true}
	for i, want := range wantChanged {
		if _, changed := m.Check(ctx); changed != want {
			t.Errorf("check %d: changed = %v, want %v", i, changed, want)
		}
	}

	var got []StatusChange
	for len(got) < 3 {
		select {
		case evt := <-ch:
			got = append(got, evt.Payload.(StatusChange))
		case <-time.After(time.Second):
			t.Fatalf("expected 3 status events, got %d", len(got))
		}
	}
	if got[0].Previous != nil || !got[0].Available {
		t.Errorf("first event should report available with no previous state: %+v", got[0])
	}
	if got[1].Available || got[1].Previous == nil || !*got[1].Previous {
		t.Errorf("second event should be available→unavailable: %+v", got[1])
	}
	if !got[2].Available {
		t.Errorf("third event should report available: %+v", got[2])
	}
}

func TestLast(t *testing.T) {
	t.Parallel()

	m := New(&scriptedProber{values: []bool{false}}, nil, nil)
	if _, ok := m.Last(); ok {
		t.Error("Last() should report no observation before the first check")
	}
	m.Check(context.Background())
	if available, ok := m.Last(); !ok || available {
		t.Errorf("Last() = (%v, %v), want (false, true)", available, ok)
	}
}

func TestRun_InvalidSchedule(t *testing.T) {
	t.Parallel()

	m := New(&scriptedProber{values: []bool{true}}, nil, nil)
	if err := m.Run(context.Background(), "not a schedule"); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestRun_ChecksImmediatelyAndStopsOnCancel(t *testing.T) {
	t.Parallel()

	prober := &scriptedProber{values: []bool{true}}
	m := New(prober, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, "@every 1h") }()

	deadline := time.Now().Add(time.Second)
	for prober.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Run did not perform the initial check")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
