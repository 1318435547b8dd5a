package sqlserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type transactionContextKey struct{}

var txContextKey = transactionContextKey{}

type txStarter interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// TransactionManager は database/sql を用いたトランザクション制御を提供します。
// go-mssqldb は読み取り専用トランザクションに対応しないため、どちらも READ COMMITTED で開始します。
type TransactionManager struct {
	db txStarter
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(db txStarter) *TransactionManager {
	if db == nil {
		return nil
	}
	return &TransactionManager{db: db}
}

// WithinReadOnly はトランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return runWithoutTx(ctx, fn)
	}
	return m.within(ctx, fn)
}

// WithinReadWrite はトランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return runWithoutTx(ctx, fn)
	}
	return m.within(ctx, fn)
}

func runWithoutTx(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("sqlserver: transaction function is required")
	}
	return fn(ctx)
}

func (m *TransactionManager) within(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("sqlserver: transaction function is required")
	}

	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("sqlserver: begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(context.WithValue(ctx, txContextKey, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("sqlserver: rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlserver: commit: %w", err)
	}

	committed = true
	return nil
}

func txFromContext(ctx context.Context) (*sql.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txContextKey).(*sql.Tx)
	return tx, ok
}

// ExecerFromContext はコンテキスト内にトランザクションが存在すればそれを返し、存在しなければ fallback を返します。
func ExecerFromContext(ctx context.Context, fallback Execer) Execer {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback
}

// Execer は *sql.DB と *sql.Tx に共通するクエリ実行インターフェースです。
type Execer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
