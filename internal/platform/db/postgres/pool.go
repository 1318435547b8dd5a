package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ogurasousui/enum-lookup-seeder/internal/platform/config"
)

const (
	connectBackoff = time.Second

	invalidCatalogNameCode = "3D000"
)

// ErrDatabaseNotFound は接続先のデータベースがまだ作成されていない場合に返されます。
var ErrDatabaseNotFound = errors.New("postgres: database does not exist")

// BuildPoolConfig は database 設定から pgxpool.Config を構築します。
// 接続には application_name を付与し、pg_stat_activity 上でシーダーの接続を判別できるようにします。
func BuildPoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	maxConns, err := toInt32("max_open_conns", cfg.MaxOpenConns)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	minConns, err := toInt32("max_idle_conns", cfg.MaxIdleConns)
	if err != nil {
		return nil, err
	}
	if minConns > 0 {
		poolCfg.MinConns = minConns
	}

	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	if cfg.ApplicationName != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	}

	return poolCfg, nil
}

// NewPool は pgxpool.Pool を生成し疎通確認を行います。
// 起動直後のデータベースを待つため、ConnectAttempts 回まで Ping を再試行します。
// データベース自体が存在しない場合は再試行せず ErrDatabaseNotFound を返します。
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := BuildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := pingWithRetry(ctx, pool, max(cfg.ConnectAttempts, 1)); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func pingWithRetry(ctx context.Context, p pinger, attempts int) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = p.Ping(ctx); err == nil {
			return nil
		}
		if isDatabaseMissing(err) {
			return fmt.Errorf("%w: %w", ErrDatabaseNotFound, err)
		}
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(connectBackoff * time.Duration(i)):
		}
	}
	return fmt.Errorf("postgres: ping after %d attempt(s): %w", attempts, err)
}

func toInt32(field string, v int) (int32, error) {
	if v < 0 || v > math.MaxInt32 {
		return 0, fmt.Errorf("postgres: database.%s out of range: %d", field, v)
	}
	return int32(v), nil
}

func isDatabaseMissing(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidCatalogNameCode
}
