package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestTransactionManager_ReadWriteCommit(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	tm := NewTransactionManager(mock)

	mock.ExpectBeginTx(readWriteTxOptions)
	mock.ExpectCommit()

	err = tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		if _, ok := txFromContext(ctx); !ok {
			t.Fatalf("transaction not injected into context")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinReadWrite returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionManager_ReadOnlyRollbackOnError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	tm := NewTransactionManager(mock, WithLockTimeout(time.Second))

	// 読み取り専用トランザクションには lock_timeout を設定しない
	mock.ExpectBeginTx(readOnlyTxOptions)
	mock.ExpectRollback()

	expectedErr := errors.New("relation does not exist")
	err = tm.WithinReadOnly(context.Background(), func(ctx context.Context) error {
		return expectedErr
	})
	if !errors.Is(err, expectedErr) {
		t.Fatalf("expected %v, got %v", expectedErr, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionManager_LockTimeout(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	tm := NewTransactionManager(mock, WithLockTimeout(1500*time.Millisecond))

	mock.ExpectBeginTx(readWriteTxOptions)
	mock.ExpectExec(regexp.QuoteMeta(setLockTimeoutSQL)).
		WithArgs("1500ms").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectCommit()

	if err := tm.WithinReadWrite(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("WithinReadWrite returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionManager_LockTimeoutFailureRollsBack(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	tm := NewTransactionManager(mock, WithLockTimeout(time.Second))

	mock.ExpectBeginTx(readWriteTxOptions)
	mock.ExpectExec(regexp.QuoteMeta(setLockTimeoutSQL)).
		WithArgs("1000ms").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	called := false
	err = tm.WithinReadWrite(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Fatal("fn must not run when lock_timeout cannot be set")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionManager_NestedReuse(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	tm := NewTransactionManager(mock)

	mock.ExpectBeginTx(readWriteTxOptions)
	mock.ExpectCommit()

	err = tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		return tm.WithinReadOnly(ctx, func(inner context.Context) error {
			if _, ok := txFromContext(inner); !ok {
				t.Fatalf("nested transaction lost context")
			}
			return nil
		})
	})
	if err != nil {
		t.Fatalf("nested transaction returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransactionManager_NilRunsWithoutTx(t *testing.T) {
	t.Parallel()

	tm := NewTransactionManager(nil)
	if tm != nil {
		t.Fatal("expected nil manager for nil pool")
	}

	called := false
	if err := tm.WithinReadWrite(context.Background(), func(context.Context) error {
		called = true
		return nil
	}); err != nil || !called {
		t.Fatalf("expected fn to run without transaction, err=%v called=%t", err, called)
	}
}

func TestTransactionManager_RollbackOnPanic(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	tm := NewTransactionManager(mock)

	mock.ExpectBeginTx(readWriteTxOptions)
	mock.ExpectRollback()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = tm.WithinReadWrite(context.Background(), func(context.Context) error {
			panic("insert failed unexpectedly")
		})
	}()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("transaction was not released: %v", err)
	}
}
