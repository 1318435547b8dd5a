// Package migration はマイグレーションの適用とシード用マイグレーションファイルの生成を扱います。
package migration

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlserver"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrUnsupportedAction は Run が扱えない action を指定した場合のエラーです。
var ErrUnsupportedAction = errors.New("migration: unsupported action")

var actions = map[string]struct{}{"up": {}, "down": {}, "drop": {}, "version": {}}

// Run は dir 内のマイグレーションに対して action を実行します。
// action は up, down, drop, version のいずれかです。
func Run(action, dir, databaseURL string, logger *log.Logger) error {
	if _, ok := actions[action]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedAction, action)
	}
	if logger == nil {
		logger = log.Default()
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	absDir = filepath.ToSlash(absDir)

	m, err := migrate.New(fmt.Sprintf("file://%s", absDir), databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				logger.Printf("no migration applied")
				return nil
			}
			return err
		}
		logger.Printf("version=%d dirty=%t", version, dirty)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedAction, action)
	}
}
