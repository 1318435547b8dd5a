package sqlgen

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/enum-lookup-seeder/internal/core/lookup"
)

// Postgres は PostgreSQL 向けの Dialect です。列は id, name, description を対象にします。
//
// 出力例:
//
//	INSERT INTO "public"."departments" ("id", "name", "description")
//	VALUES (1, 'Sales', 'Sales')
//	ON CONFLICT ("id") DO NOTHING;
type Postgres struct{}

// Name は方言名を返します。
func (Postgres) Name() string { return "postgres" }

// DefaultSchema は既定スキーマ public を返します。
func (Postgres) DefaultSchema() string { return "public" }

// QuoteTable は "schema"."table" 形式に引用します。
func (Postgres) QuoteTable(table string) (string, error) {
	parts, err := splitTable(table)
	if err != nil {
		return "", err
	}
	return pgx.Identifier(parts).Sanitize(), nil
}

// Literal は文字列リテラルを返します。バックスラッシュを含む場合は
// standard_conforming_strings の設定に依存しないよう E'...' 形式にします。
func (Postgres) Literal(value string) (string, error) {
	if !strings.Contains(value, `\`) {
		return quoteString(value)
	}
	q, err := quoteString(strings.ReplaceAll(value, `\`, `\\`))
	if err != nil {
		return "", err
	}
	return "E" + q, nil
}

func (d Postgres) insertIfMissing(table string, row lookup.Row) (string, error) {
	target, err := d.QuoteTable(table)
	if err != nil {
		return "", err
	}
	name, err := d.Literal(row.Name)
	if err != nil {
		return "", err
	}
	desc, err := d.Literal(row.Description)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"INSERT INTO %s (\"id\", \"name\", \"description\")\n"+
			"VALUES (%d, %s, %s)\n"+
			"ON CONFLICT (\"id\") DO NOTHING;",
		target, row.ID, name, desc,
	), nil
}
