// Package sqlserver は SQL Server を利用したリポジトリ実装を提供します。
package sqlserver

import (
	"context"
	"errors"
	"fmt"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/ogurasousui/enum-lookup-seeder/internal/adapters/sqlgen"
	"github.com/ogurasousui/enum-lookup-seeder/internal/core/lookup"
	msdb "github.com/ogurasousui/enum-lookup-seeder/internal/platform/db/sqlserver"
)

const (
	lookupInvalidObjectNameNumber  = 208
	lookupCannotOpenDatabaseNumber = 4060
)

// LookupRepository は SQL Server を利用したルックアップテーブル永続化の実装です。
type LookupRepository struct {
	db     msdb.Execer
	schema string
}

// NewLookupRepository は LookupRepository を生成します。schema が空の場合は既定スキーマに従います。
func NewLookupRepository(db msdb.Execer, schema string) *LookupRepository {
	return &LookupRepository{db: db, schema: schema}
}

// ListIDs はテーブルの主キー一覧を昇順で返します。
func (r *LookupRepository) ListIDs(ctx context.Context, table string) ([]int32, error) {
	target, err := r.quoteTable(table)
	if err != nil {
		return nil, err
	}

	exec := msdb.ExecerFromContext(ctx, r.db)
	rows, err := exec.QueryContext(ctx, listIDsQuery(target))
	if err != nil {
		return nil, translateLookupMSSQLError(err)
	}
	defer rows.Close()

	ids := make([]int32, 0, 8)
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, translateLookupMSSQLError(err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, translateLookupMSSQLError(err)
	}

	return ids, nil
}

// InsertIfMissing は同じ ID の行がない場合のみ挿入し、挿入件数を返します。
func (r *LookupRepository) InsertIfMissing(ctx context.Context, table string, rows []lookup.Row) (int, error) {
	target, err := r.quoteTable(table)
	if err != nil {
		return 0, err
	}

	exec := msdb.ExecerFromContext(ctx, r.db)
	query := insertIfMissingQuery(target)

	inserted := 0
	for _, row := range rows {
		if err := lookup.ValidateRow(row); err != nil {
			return inserted, err
		}
		res, err := exec.ExecContext(ctx, query, row.ID, row.Name, row.Description, row.Deleted)
		if err != nil {
			return inserted, translateLookupMSSQLError(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, err
		}
		inserted += int(n)
	}

	return inserted, nil
}

func (r *LookupRepository) quoteTable(table string) (string, error) {
	name := table
	if r.schema != "" {
		name = r.schema + "." + table
	}
	quoted, err := sqlgen.SQLServer{}.QuoteTable(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", lookup.ErrInvalidTable, err)
	}
	return quoted, nil
}

func listIDsQuery(target string) string {
	return `SELECT [Id] FROM ` + target + ` ORDER BY [Id]`
}

func insertIfMissingQuery(target string) string {
	return `
        INSERT INTO ` + target + ` ([Id], [Name], [Description], [Deleted])
        SELECT @p1, @p2, @p3, @p4
        WHERE NOT EXISTS (SELECT 1 FROM ` + target + ` WITH (UPDLOCK, HOLDLOCK) WHERE [Id] = @p1)
    `
}

func translateLookupMSSQLError(err error) error {
	if err == nil {
		return nil
	}

	var msErr mssql.Error
	if errors.As(err, &msErr) {
		switch msErr.Number {
		case lookupInvalidObjectNameNumber, lookupCannotOpenDatabaseNumber:
			return fmt.Errorf("%w: %s", lookup.ErrTableNotFound, msErr.Message)
		}
	}

	return err
}
