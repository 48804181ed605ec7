package idempotency

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/guidee/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestModuleFallsBackToNoop(t *testing.T) {
	var store Store
	app := fxtest.New(t,
		fx.Supply(&config.Config{}, discardLogger()),
		Module,
		fx.Populate(&store),
	)
	app.RequireStart()
	defer app.RequireStop()

	if _, ok := store.(NoopStore); !ok {
		t.Fatalf("expected NoopStore, got %T", store)
	}
}

func TestModuleUsesRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	var store Store
	app := fxtest.New(t,
		fx.Supply(&config.Config{RedisAddress: mr.Addr()}, discardLogger()),
		Module,
		fx.Populate(&store),
	)
	app.RequireStart()
	defer app.RequireStop()

	if _, ok := store.(*RedisStore); !ok {
		t.Fatalf("expected *RedisStore, got %T", store)
	}
	if ok, err := store.Claim(context.Background(), "tx-1", 0); err != nil || !ok {
		t.Fatalf("expected claim to succeed, got %v %v", ok, err)
	}
}
