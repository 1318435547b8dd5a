// Package sqlserver は go-mssqldb を用いた SQL Server 接続とトランザクション制御を提供します。
package sqlserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
)

const cannotOpenDatabaseNumber = 4060

// ErrDatabaseNotFound は接続先のデータベースがまだ作成されていない場合に返されます。
var ErrDatabaseNotFound = errors.New("sqlserver: database does not exist")

// Open は DSN を検証したうえで接続し、疎通確認を行います。
// ログイン時に対象データベースを開けない場合は ErrDatabaseNotFound を返します。
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if err := ValidateDSN(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlserver: open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		if isDatabaseMissing(err) {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseNotFound, err)
		}
		return nil, fmt.Errorf("sqlserver: ping: %w", err)
	}

	return db, nil
}

// ValidateDSN は DSN の書式を検証します。
func ValidateDSN(dsn string) error {
	if dsn == "" {
		return errors.New("sqlserver: dsn must be set")
	}
	if _, err := msdsn.Parse(dsn); err != nil {
		return fmt.Errorf("sqlserver: parse dsn: %w", err)
	}
	return nil
}

// ログインエラーはドライバのバージョンによって mssql.Error に包まれずに届くため、メッセージも確認する。
func isDatabaseMissing(err error) bool {
	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return msErr.Number == cannotOpenDatabaseNumber
	}
	return strings.Contains(err.Error(), "Cannot open database")
}
