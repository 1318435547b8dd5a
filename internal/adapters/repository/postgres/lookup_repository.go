package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/enum-lookup-seeder/internal/adapters/sqlgen"
	"github.com/ogurasousui/enum-lookup-seeder/internal/core/lookup"
	pgdb "github.com/ogurasousui/enum-lookup-seeder/internal/platform/db/postgres"
)

const (
	lookupUndefinedTableCode     = "42P01"
	lookupInvalidSchemaNameCode  = "3F000"
	lookupInvalidCatalogNameCode = "3D000"
)

// LookupRepository は PostgreSQL を利用したルックアップテーブル永続化の実装です。
type LookupRepository struct {
	pool   pgdb.Queryer
	schema string
}

// NewLookupRepository は LookupRepository を生成します。schema が空の場合は search_path に従います。
func NewLookupRepository(pool pgdb.Queryer, schema string) *LookupRepository {
	return &LookupRepository{pool: pool, schema: schema}
}

// ListIDs はテーブルの主キー一覧を昇順で返します。
func (r *LookupRepository) ListIDs(ctx context.Context, table string) ([]int32, error) {
	target, err := r.quoteTable(table)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT id FROM `+target+` ORDER BY id`)
	if err != nil {
		return nil, translateLookupPgError(err)
	}
	defer rows.Close()

	ids := make([]int32, 0, 8)
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, translateLookupPgError(err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, translateLookupPgError(err)
	}

	return ids, nil
}

// InsertIfMissing は同じ ID の行がない場合のみ挿入し、挿入件数を返します。
func (r *LookupRepository) InsertIfMissing(ctx context.Context, table string, rows []lookup.Row) (int, error) {
	target, err := r.quoteTable(table)
	if err != nil {
		return 0, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	query := `
        INSERT INTO ` + target + ` (id, name, description, deleted)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO NOTHING
    `

	inserted := 0
	for _, row := range rows {
		if err := lookup.ValidateRow(row); err != nil {
			return inserted, err
		}
		tag, err := exec.Exec(ctx, query, row.ID, row.Name, row.Description, row.Deleted)
		if err != nil {
			return inserted, translateLookupPgError(err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

func (r *LookupRepository) quoteTable(table string) (string, error) {
	name := table
	if r.schema != "" {
		name = r.schema + "." + table
	}
	quoted, err := sqlgen.Postgres{}.QuoteTable(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", lookup.ErrInvalidTable, err)
	}
	return quoted, nil
}

func translateLookupPgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case lookupUndefinedTableCode, lookupInvalidSchemaNameCode, lookupInvalidCatalogNameCode:
			return fmt.Errorf("%w: %s", lookup.ErrTableNotFound, pgErr.Message)
		}
	}

	return err
}
