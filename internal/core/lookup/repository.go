package lookup

import "context"

// Repository はルックアップテーブルの永続化を行うインターフェースです。
type Repository interface {
	// ListIDs は table の主キー一覧を返します。テーブルやデータベースが存在しない場合は ErrTableNotFound を返します。
	ListIDs(ctx context.Context, table string) ([]int32, error)
	// InsertIfMissing は同じ ID の行が存在しない場合のみ行を挿入し、挿入件数を返します。
	InsertIfMissing(ctx context.Context, table string, rows []Row) (int, error)
}
