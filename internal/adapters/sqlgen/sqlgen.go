// Package sqlgen はルックアップ行を冪等な条件付き INSERT 文として出力します。
// 出力された文は同じデータベースに何度適用しても行の重複や一意制約違反を起こしません。
package sqlgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ogurasousui/enum-lookup-seeder/internal/core/lookup"
)

var (
	// ErrUnknownDialect は未対応の方言名が指定された場合に返却されます。
	ErrUnknownDialect = errors.New("sqlgen: unknown dialect")
	// ErrInvalidIdentifier はテーブル名が不正な場合に返却されます。
	ErrInvalidIdentifier = errors.New("sqlgen: invalid identifier")
	// ErrInvalidLiteral は文字列リテラルに埋め込めない値の場合に返却されます。
	ErrInvalidLiteral = errors.New("sqlgen: invalid literal")
)

// Dialect は SQL 方言ごとの文生成を表します。
type Dialect interface {
	// Name は設定ファイルで使う方言名を返します。
	Name() string
	// DefaultSchema は schema 未指定時に使う既定スキーマを返します。
	DefaultSchema() string
	// QuoteTable は schema.table 形式の名前を識別子として引用します。
	QuoteTable(table string) (string, error)
	// Literal は文字列を安全な SQL リテラルに変換します。
	Literal(value string) (string, error)
	insertIfMissing(table string, row lookup.Row) (string, error)
}

// DialectByName は方言名から Dialect を返します。
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pgx":
		return Postgres{}, nil
	case "sqlserver", "mssql":
		return SQLServer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
}

// Emit は「同じ ID の行がなければ挿入する」1 文を返します。
func Emit(d Dialect, table string, row lookup.Row) (string, error) {
	if d == nil {
		return "", ErrUnknownDialect
	}
	if err := lookup.ValidateRow(row); err != nil {
		return "", err
	}
	return d.insertIfMissing(table, row)
}

// Script は rows の各行に対する Emit の結果を 1 つのスクリプトにまとめます。
func Script(d Dialect, table string, rows []lookup.Row) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "-- seed %s (%d rows, idempotent)\n", table, len(rows))
	for _, row := range rows {
		stmt, err := Emit(d, table, row)
		if err != nil {
			return "", fmt.Errorf("sqlgen: row %d: %w", row.ID, err)
		}
		sb.WriteString(stmt)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func splitTable(table string) ([]string, error) {
	trimmed := strings.TrimSpace(table)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty table name", ErrInvalidIdentifier)
	}
	parts := strings.Split(trimmed, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || strings.ContainsRune(p, 0) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
		}
		parts[i] = p
	}
	return parts, nil
}

// quoteString は ' を二重化してリテラル本体を返します。
func quoteString(value string) (string, error) {
	if strings.ContainsRune(value, 0) {
		return "", fmt.Errorf("%w: NUL byte", ErrInvalidLiteral)
	}
	return "'" + strings.ReplaceAll(value, "'", "''") + "'", nil
}
