package worker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/model"
	testhelpers "github.com/polkiloo/guidee/internal/test"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewSweeperDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	s := NewSweeper(&testhelpers.SweepFacadeStub{}, 0, 0, 0, logger)
	if s.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", s.batchSize)
	}
	if s.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", s.workers)
	}
	if s.interval != time.Minute {
		t.Fatalf("expected interval default to 1m, got %v", s.interval)
	}
}

func TestSweeperExpiresStaleRequests(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.SweepFacadeStub{Batches: [][]model.Order{
		{{ID: "o-1"}, {ID: "o-2"}},
		{{ID: "o-3"}},
	}}
	s := NewSweeper(facade, 5*time.Millisecond, 4, 2, logger)

	s.Start(context.Background())
	waitFor(t, time.Second, func() bool {
		facade.Lock()
		defer facade.Unlock()
		return len(facade.Expired) == 3
	})
	s.Stop()

	facade.Lock()
	defer facade.Unlock()
	seen := map[string]bool{}
	for _, id := range facade.Expired {
		seen[id] = true
	}
	for _, id := range []string{"o-1", "o-2", "o-3"} {
		if !seen[id] {
			t.Fatalf("expected %s to be expired, got %v", id, facade.Expired)
		}
	}
}

func TestSweeperLogsFailures(t *testing.T) {
	out := &lockedBuffer{}
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var mu sync.Mutex
	attempted := map[string]bool{}
	facade := &testhelpers.SweepFacadeStub{
		Batches: [][]model.Order{{{ID: "broken", OrderNumber: "GD1"}, {ID: "settled"}}},
		ExpireFn: func(_ context.Context, id string) (*model.Order, error) {
			mu.Lock()
			attempted[id] = true
			mu.Unlock()
			if id == "settled" {
				return nil, &domainErrors.TransitionError{Operation: "expire", From: "CONFIRMED"}
			}
			return nil, errors.New("database unavailable")
		},
	}
	s := NewSweeper(facade, 5*time.Millisecond, 2, 1, logger)

	s.Start(context.Background())
	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempted["broken"] && attempted["settled"]
	})
	s.Stop()

	logs := out.String()
	if !strings.Contains(logs, "expire stale request failed") || !strings.Contains(logs, `"order_id":"broken"`) {
		t.Fatalf("expected failure to be logged, got %s", logs)
	}
	if strings.Contains(logs, `"order_id":"settled"`) {
		t.Fatalf("settled order must not be logged at info or above: %s", logs)
	}
}

func TestSweeperLogsFetchErrors(t *testing.T) {
	out := &lockedBuffer{}
	logger := slog.New(slog.NewJSONHandler(out, nil))
	facade := &testhelpers.SweepFacadeStub{StaleFn: func(context.Context, int) ([]model.Order, error) {
		return nil, errors.New("query failed")
	}}
	s := NewSweeper(facade, 5*time.Millisecond, 1, 1, logger)

	s.Start(context.Background())
	waitFor(t, time.Second, func() bool {
		return strings.Contains(out.String(), "fetch stale requests failed")
	})
	s.Stop()
}

func TestSweeperStartStopIdempotent(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	s := NewSweeper(&testhelpers.SweepFacadeStub{}, time.Hour, 1, 1, logger)

	s.Stop()
	s.Start(context.Background())
	s.Start(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Stop()
		s.Stop()
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected stop to finish")
	}
}
