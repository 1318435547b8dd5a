package sqlgen

import (
	"fmt"
	"strings"

	"github.com/ogurasousui/enum-lookup-seeder/internal/core/lookup"
)

// SQLServer は T-SQL 向けの Dialect です。列は [Id], [Name], [Description] を対象にします。
//
// 出力例:
//
//	INSERT INTO [dbo].[Department] ([Id], [Name], [Description])
//	SELECT 1, N'Sales', N'Sales'
//	WHERE NOT EXISTS (SELECT 1 FROM [dbo].[Department] WITH (UPDLOCK, HOLDLOCK) WHERE [Id] = 1);
//
// 存在確認と挿入を 1 文にまとめ、UPDLOCK/HOLDLOCK でキー範囲を文の終わりまでロックします。
type SQLServer struct{}

// Name は方言名を返します。
func (SQLServer) Name() string { return "sqlserver" }

// DefaultSchema は既定スキーマ dbo を返します。
func (SQLServer) DefaultSchema() string { return "dbo" }

// QuoteTable は [schema].[table] 形式に引用します。
func (SQLServer) QuoteTable(table string) (string, error) {
	parts, err := splitTable(table)
	if err != nil {
		return "", err
	}
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = quoteBracket(p)
	}
	return strings.Join(quoted, "."), nil
}

// Literal は N'...' 形式の Unicode リテラルを返します。
func (SQLServer) Literal(value string) (string, error) {
	q, err := quoteString(value)
	if err != nil {
		return "", err
	}
	return "N" + q, nil
}

func (d SQLServer) insertIfMissing(table string, row lookup.Row) (string, error) {
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
		"INSERT INTO %[1]s ([Id], [Name], [Description])\n"+
			"SELECT %[2]d, %[3]s, %[4]s\n"+
			"WHERE NOT EXISTS (SELECT 1 FROM %[1]s WITH (UPDLOCK, HOLDLOCK) WHERE [Id] = %[2]d);",
		target, row.ID, name, desc,
	), nil
}

// quoteBracket は ] を二重化して角括弧で囲みます。
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func quoteBracket(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
