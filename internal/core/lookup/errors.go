package lookup

import "errors"

var (
	// ErrInvalidEnumType は列挙型として扱えない型が渡された場合に返却されます。
	ErrInvalidEnumType = errors.New("lookup: invalid enum type")
	// ErrUnsupportedUnderlyingType は基底型が int32 以外の場合に返却されます。
	ErrUnsupportedUnderlyingType = errors.New("lookup: unsupported underlying type")
	// ErrDuplicateID は同じ値を持つ列挙定数が複数ある場合に返却されます。
	ErrDuplicateID = errors.New("lookup: duplicate id")
	// ErrNonPositiveID は 0 以下の値を持つ列挙定数がある場合に返却されます。
	ErrNonPositiveID = errors.New("lookup: id must be greater than zero")
	// ErrInvalidName は名前が空、または長すぎる場合に返却されます。
	ErrInvalidName = errors.New("lookup: invalid name")
	// ErrInvalidDescription は説明が長すぎる場合に返却されます。
	ErrInvalidDescription = errors.New("lookup: invalid description")
	// ErrInvalidTable はテーブル定義が不正な場合に返却されます。
	ErrInvalidTable = errors.New("lookup: invalid table")
	// ErrTableNotFound は対象テーブルまたはデータベースが存在しない場合に返却されます。
	ErrTableNotFound = errors.New("lookup: table not found")
)
