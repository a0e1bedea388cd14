package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/pos80/internal/app"
	"github.com/polkiloo/pos80/internal/config"
	"github.com/polkiloo/pos80/internal/domain/model"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		RunAddress:           "127.0.0.1:0",
		StoreDriver:          config.DriverJSON,
		DataDir:              dir,
		SessionSecret:        "secret",
		DefaultStaffPassword: "1234",
		TillReportScope:      model.ScopeAll,
		WatchInterval:        time.Hour,
		WorkerPoolSize:       1,
		BatchSize:            1,
		ShutdownTimeout:      time.Second,
		PrintTimeout:         time.Second,
		SpoolDir:             dir + "/spool",
		AMQPExchange:         "pos80.print",
		ReceiptHeader:        "POS80",
	}
}

func TestServerModuleComposesGraphWithReplacements(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var facade *app.POSFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		ServerModule(
			fx.Replace(testConfig(t)),
			fx.Replace(logger),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	if facade == nil {
		t.Fatal("expected POS facade instance")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fxApp.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := facade.Login(ctx, "admin", "1234"); err != nil {
		t.Fatalf("expected seeded admin to log in: %v", err)
	}
	if err := fxApp.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestWatcherModuleComposesGraph(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var worker app.Worker
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		WatcherModule(
			fx.Replace(testConfig(t)),
			fx.Replace(logger),
		),
		fx.Populate(&worker),
	)
	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fxApp.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := fxApp.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
