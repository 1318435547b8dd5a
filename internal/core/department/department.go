package department

import (
	"strconv"

	"github.com/ogurasousui/enum-lookup-seeder/internal/core/lookup"
)

// TableName は部署ルックアップテーブルの名前です。
const TableName = "departments"

// Department は社員の所属部署を表す列挙型です。
type Department int32

const (
	Sales            Department = 1
	CustomerService  Department = 2
	TechnicalSupport Department = 3
)

var descriptor = lookup.MustDescribe(
	lookup.Constant[Department]{Name: "Sales", Value: Sales},
	lookup.Constant[Department]{Name: "CustomerService", Value: CustomerService, Description: "Customer Service"},
	lookup.Constant[Department]{Name: "TechnicalSupport", Value: TechnicalSupport, Description: "Technical Support"},
)

// Table は departments テーブルと Department の対応を返します。
func Table() lookup.Table {
	return lookup.Table{Name: TableName, Enum: descriptor}
}

// String は宣言名を返します。
func (d Department) String() string {
	if m, ok := descriptor.Lookup(int32(d)); ok {
		return m.Name
	}
	return "Department(" + strconv.Itoa(int(d)) + ")"
}

// Description は表示用の説明を返します。
func (d Department) Description() string {
	if m, ok := descriptor.Lookup(int32(d)); ok {
		return m.Description
	}
	return d.String()
}

// IsValid は宣言済みの部署かを返します。
func (d Department) IsValid() bool {
	_, ok := descriptor.Lookup(int32(d))
	return ok
}
