package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type transactionContextKey struct{}

var txContextKey = transactionContextKey{}

var (
	readOnlyTxOptions  = pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadOnly}
	readWriteTxOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite}
)

// lock_timeout はトランザクション内に限定して設定します。
const setLockTimeoutSQL = `SELECT set_config('lock_timeout', $1, true)`

type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionManager はルックアップ同期用のトランザクションを pgx で開始します。
// ID の読み取りと行の挿入は別々のトランザクションで実行されます。
type TransactionManager struct {
	pool        txStarter
	lockTimeout time.Duration
}

// Option は TransactionManager の設定を変更します。
type Option func(*TransactionManager)

// WithLockTimeout は書き込みトランザクションのロック待ち上限を設定します。
// 0 以下の場合は設定しません。
func WithLockTimeout(d time.Duration) Option {
	return func(m *TransactionManager) {
		m.lockTimeout = d
	}
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(pool txStarter, opts ...Option) *TransactionManager {
	if pool == nil {
		return nil
	}
	m := &TransactionManager{pool: pool}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithinReadOnly は読み取り専用トランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, readOnlyTxOptions, 0, fn)
}

// WithinReadWrite は読み書きトランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, readWriteTxOptions, m.lockTimeout, fn)
}

func (m *TransactionManager) within(ctx context.Context, opts pgx.TxOptions, lockTimeout time.Duration, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("postgres: transaction function is required")
	}

	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}

	finished := false
	defer func() {
		if !finished {
			_ = tx.Rollback(ctx)
		}
	}()

	err = run(ctx, tx, lockTimeout, fn)
	finished = true
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("postgres: rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func run(ctx context.Context, tx pgx.Tx, lockTimeout time.Duration, fn func(context.Context) error) error {
	if lockTimeout > 0 {
		if _, err := tx.Exec(ctx, setLockTimeoutSQL, fmt.Sprintf("%dms", lockTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("postgres: set lock_timeout: %w", err)
		}
	}
	return fn(context.WithValue(ctx, txContextKey, tx))
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txContextKey).(pgx.Tx)
	return tx, ok
}

// QueryerFromContext はコンテキスト内にトランザクションが存在すればそれを返し、存在しなければ fallback を返します。
func QueryerFromContext(ctx context.Context, fallback Queryer) Queryer {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback
}

// Queryer は pgx.Tx と pgxpool.Pool に共通するクエリ実行インターフェースです。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
