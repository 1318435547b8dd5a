package lookup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service はルックアップテーブルの同期ユースケースをまとめます。
type Service struct {
	repo   Repository
	tx     TransactionManager
	logger *log.Logger
}

// UseCase は同期ユースケースの公開インターフェースです。
type UseCase interface {
	Plan(ctx context.Context, table Table) (*Plan, error)
	Apply(ctx context.Context, plan *Plan) (int, error)
	Seed(ctx context.Context, table Table) (*SeedResult, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager, logger *log.Logger) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{repo: repo, tx: tx, logger: logger}
}

// Plan は挿入待ちの行をまとめた変更セットです。
type Plan struct {
	Table        string
	EnumType     string
	Rows         []Row
	Orphans      []int32
	TableMissing bool
}

// SeedResult は Seed の実行結果です。
type SeedResult struct {
	Plan     *Plan
	Inserted int
}

// Plan は永続化済みの ID と列挙型を突き合わせ、不足分の行を算出します。
// テーブルが存在しない場合は空集合として扱います。
func (s *Service) Plan(ctx context.Context, table Table) (*Plan, error) {
	name, err := normalizeTableName(table.Name)
	if err != nil {
		return nil, err
	}
	if table.Enum == nil {
		return nil, fmt.Errorf("%w: %s has no enum", ErrInvalidTable, name)
	}

	existing := NewIDSet()
	missing := false
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		ids, err := s.repo.ListIDs(txCtx, name)
		if err != nil {
			return err
		}
		existing.Add(ids...)
		return nil
	}); err != nil {
		if !errors.Is(err, ErrTableNotFound) {
			return nil, fmt.Errorf("lookup: list ids of %s: %w", name, err)
		}
		missing = true
	}

	members := table.Enum.Members()
	rows, err := Reconcile(existing, members)
	if err != nil {
		return nil, fmt.Errorf("lookup: reconcile %s: %w", table.Enum.TypeName(), err)
	}

	return &Plan{
		Table:        name,
		EnumType:     table.Enum.TypeName(),
		Rows:         rows,
		Orphans:      Orphans(existing, members),
		TableMissing: missing,
	}, nil
}

// Apply は変更セットを 1 つのトランザクションで永続化し、挿入件数を返します。
func (s *Service) Apply(ctx context.Context, plan *Plan) (int, error) {
	if plan == nil || len(plan.Rows) == 0 {
		return 0, nil
	}

	var inserted int
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		n, err := s.repo.InsertIfMissing(txCtx, plan.Table, plan.Rows)
		if err != nil {
			return err
		}
		inserted = n
		return nil
	}); err != nil {
		return 0, fmt.Errorf("lookup: insert into %s: %w", plan.Table, err)
	}

	return inserted, nil
}

// Seed は Plan と Apply を続けて実行します。
// テーブルが未作成の場合は初回作成中とみなし、挿入は行いません。
func (s *Service) Seed(ctx context.Context, table Table) (*SeedResult, error) {
	plan, err := s.Plan(ctx, table)
	if err != nil {
		return nil, err
	}

	if len(plan.Orphans) > 0 {
		s.logger.Printf("lookup: %s has ids not declared by %s: %v", plan.Table, plan.EnumType, plan.Orphans)
	}

	if plan.TableMissing {
		s.logger.Printf("lookup: table %s not found while seeding %s; this is expected before the initial migration", plan.Table, plan.EnumType)
		return &SeedResult{Plan: plan}, nil
	}

	inserted, err := s.Apply(ctx, plan)
	if err != nil {
		return nil, err
	}

	return &SeedResult{Plan: plan, Inserted: inserted}, nil
}

func normalizeTableName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidTable)
	}
	for _, part := range strings.Split(trimmed, ".") {
		if strings.TrimSpace(part) == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidTable, raw)
		}
	}
	return trimmed, nil
}
