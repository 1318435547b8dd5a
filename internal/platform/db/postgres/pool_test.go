package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/enum-lookup-seeder/internal/platform/config"
)

func testDatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:            "localhost",
		Port:            15432,
		User:            "user",
		Password:        "pass",
		Name:            "db",
		SSLMode:         "disable",
		ApplicationName: "enum-lookup-seeder",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

func TestBuildPoolConfig(t *testing.T) {
	t.Parallel()

	poolCfg, err := BuildPoolConfig(testDatabaseConfig())
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if poolCfg.MaxConns != 20 {
		t.Errorf("expected MaxConns 20, got %d", poolCfg.MaxConns)
	}
	if poolCfg.MinConns != 5 {
		t.Errorf("expected MinConns 5, got %d", poolCfg.MinConns)
	}
	if poolCfg.MaxConnLifetime != 30*time.Minute {
		t.Errorf("unexpected MaxConnLifetime: %v", poolCfg.MaxConnLifetime)
	}
	if poolCfg.MaxConnIdleTime != 10*time.Minute {
		t.Errorf("unexpected MaxConnIdleTime: %v", poolCfg.MaxConnIdleTime)
	}
	if poolCfg.ConnConfig.Database != "db" {
		t.Errorf("expected database db, got %s", poolCfg.ConnConfig.Database)
	}
	if got := poolCfg.ConnConfig.RuntimeParams["application_name"]; got != "enum-lookup-seeder" {
		t.Errorf("unexpected application_name %q", got)
	}
}

func TestBuildPoolConfig_OutOfRange(t *testing.T) {
	t.Parallel()

	cfg := testDatabaseConfig()
	cfg.MaxOpenConns = math.MaxInt32 + 1

	if _, err := BuildPoolConfig(cfg); err == nil {
		t.Fatal("expected error for out of range max_open_conns")
	}
}

type flakyPinger struct {
	failures int
	calls    int
	err      error
}

func (p *flakyPinger) Ping(context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		if p.err != nil {
			return p.err
		}
		return errors.New("connection refused")
	}
	return nil
}

func TestPingWithRetry(t *testing.T) {
	t.Parallel()

	p := &flakyPinger{failures: 1}
	if err := pingWithRetry(context.Background(), p, 2); err != nil {
		t.Fatalf("expected success on second attempt, got %v", err)
	}
	if p.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", p.calls)
	}
}

func TestPingWithRetry_GivesUp(t *testing.T) {
	t.Parallel()

	p := &flakyPinger{failures: 5}
	if err := pingWithRetry(context.Background(), p, 1); err == nil {
		t.Fatal("expected error")
	}
	if p.calls != 1 {
		t.Fatalf("expected a single call, got %d", p.calls)
	}
}

func TestPingWithRetry_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &flakyPinger{failures: 5}
	if err := pingWithRetry(ctx, p, 3); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPingWithRetry_DatabaseNotFound(t *testing.T) {
	t.Parallel()

	p := &flakyPinger{
		failures: 5,
		err:      fmt.Errorf("failed to connect: %w", &pgconn.PgError{Code: "3D000", Message: `database "lookup" does not exist`}),
	}

	err := pingWithRetry(context.Background(), p, 3)
	if !errors.Is(err, ErrDatabaseNotFound) {
		t.Fatalf("expected ErrDatabaseNotFound, got %v", err)
	}
	if p.calls != 1 {
		t.Fatalf("missing database must not be retried, got %d calls", p.calls)
	}
}
