package migration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ogurasousui/enum-lookup-seeder/internal/adapters/sqlgen"
	"github.com/ogurasousui/enum-lookup-seeder/internal/core/lookup"
	"github.com/zeebo/xxh3"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_]*$`)

// ErrInvalidFileName はマイグレーション名やバージョンが不正な場合に返却されます。
var ErrInvalidFileName = errors.New("migration: invalid file name")

// SeedFile は golang-migrate 形式のシード用マイグレーションです。
type SeedFile struct {
	Version uint64
	Name    string
	Up      string
	Down    string
}

// WriteResult は Write の結果です。
type WriteResult struct {
	UpPath    string
	DownPath  string
	Unchanged bool
}

// BuildSeedFile は各テーブルの全メンバーを冪等な INSERT としてまとめた SeedFile を生成します。
// 適用時に行が既に存在していても何も起きないため、既存 ID との突き合わせは行いません。
func BuildSeedFile(d sqlgen.Dialect, version uint64, name, schema string, tables []lookup.Table) (*SeedFile, error) {
	if version == 0 || !namePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: %d_%s", ErrInvalidFileName, version, name)
	}

	var up strings.Builder
	for _, t := range tables {
		if t.Enum == nil {
			return nil, fmt.Errorf("%w: %s has no enum", lookup.ErrInvalidTable, t.Name)
		}
		rows, err := lookup.Reconcile(lookup.NewIDSet(), t.Enum.Members())
		if err != nil {
			return nil, fmt.Errorf("migration: %s: %w", t.Enum.TypeName(), err)
		}

		target := t.Name
		if schema != "" {
			target = schema + "." + t.Name
		}
		script, err := sqlgen.Script(d, target, rows)
		if err != nil {
			return nil, fmt.Errorf("migration: %s: %w", t.Name, err)
		}
		if up.Len() > 0 {
			up.WriteString("\n")
		}
		up.WriteString(script)
	}

	down := "-- lookup rows are never deleted by a rollback\n"

	return &SeedFile{Version: version, Name: name, Up: up.String(), Down: down}, nil
}

// Write は SeedFile を dir に書き出します。内容が既存ファイルと同じ場合は書き込みません。
func Write(dir string, f *SeedFile) (*WriteResult, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil file", ErrInvalidFileName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("migration: create dir %s: %w", dir, err)
	}

	base := fmt.Sprintf("%06d_%s", f.Version, f.Name)
	result := &WriteResult{
		UpPath:   filepath.Join(dir, base+".up.sql"),
		DownPath: filepath.Join(dir, base+".down.sql"),
	}

	upSame, err := sameContent(result.UpPath, f.Up)
	if err != nil {
		return nil, err
	}
	downSame, err := sameContent(result.DownPath, f.Down)
	if err != nil {
		return nil, err
	}
	if upSame && downSame {
		result.Unchanged = true
		return result, nil
	}

	if err := os.WriteFile(result.UpPath, []byte(f.Up), 0o644); err != nil {
		return nil, fmt.Errorf("migration: write %s: %w", result.UpPath, err)
	}
	if err := os.WriteFile(result.DownPath, []byte(f.Down), 0o644); err != nil {
		return nil, fmt.Errorf("migration: write %s: %w", result.DownPath, err)
	}

	return result, nil
}

func sameContent(path, content string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("migration: read %s: %w", path, err)
	}
	return xxh3.Hash(existing) == xxh3.HashString(content), nil
}
