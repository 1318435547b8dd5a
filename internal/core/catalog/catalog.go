// Package catalog は同期対象のルックアップテーブル一覧を提供します。
package catalog

import (
	"github.com/ogurasousui/enum-lookup-seeder/internal/core/department"
	"github.com/ogurasousui/enum-lookup-seeder/internal/core/lookup"
)

// Tables は列挙型ごとのルックアップテーブルを返します。1 テーブルにつき 1 列挙型です。
func Tables() []lookup.Table {
	return []lookup.Table{
		department.Table(),
	}
}
