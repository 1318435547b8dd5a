package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DialectPostgres は PostgreSQL を対象とする方言名です。
	DialectPostgres = "postgres"
	// DialectSQLServer は SQL Server を対象とする方言名です。
	DialectSQLServer = "sqlserver"

	defaultConfigPath      = "assets/local.yaml"
	defaultApplicationName = "enum-lookup-seeder"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	SQLServer SQLServerConfig `yaml:"sqlserver"`
	Lookup    LookupConfig    `yaml:"lookup"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	ApplicationName    string        `yaml:"application_name"`
	ConnectAttempts    int           `yaml:"connect_attempts"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// SQLServerConfig は SQL Server 接続に関する設定です。
type SQLServerConfig struct {
	DSN string `yaml:"dsn"`
}

// LookupConfig はルックアップテーブル同期に関する設定です。
// LockTimeout は PostgreSQL の書き込みトランザクションにのみ適用されます。
type LookupConfig struct {
	Dialect        string        `yaml:"dialect"`
	Schema         string        `yaml:"schema"`
	SeedOnStart    bool          `yaml:"seed_on_start"`
	MigrationsDir  string        `yaml:"migrations_dir"`
	LockTimeout    time.Duration `yaml:"-"`
	LockTimeoutRaw string        `yaml:"lock_timeout"`
}

// ResolvePath は設定ファイルのパスを決定します。
// flagValue、環境変数 CONFIG_PATH (.env も参照)、既定値の順に採用します。
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load()
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return defaultConfigPath
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Lookup.validateAndNormalize(); err != nil {
		return err
	}

	switch c.Lookup.Dialect {
	case DialectPostgres:
		db := &c.Database
		if err := db.validateAndNormalize(); err != nil {
			return err
		}
	case DialectSQLServer:
		if strings.TrimSpace(c.SQLServer.DSN) == "" {
			return fmt.Errorf("config: sqlserver.dsn must be set when lookup.dialect is sqlserver")
		}
	}

	return nil
}

func (l *LookupConfig) validateAndNormalize() error {
	l.Dialect = strings.ToLower(strings.TrimSpace(l.Dialect))
	if l.Dialect == "" {
		l.Dialect = DialectPostgres
	}
	switch l.Dialect {
	case DialectPostgres:
		if l.Schema == "" {
			l.Schema = "public"
		}
	case DialectSQLServer:
		if l.Schema == "" {
			l.Schema = "dbo"
		}
	default:
		return fmt.Errorf("config: lookup.dialect %q is not supported", l.Dialect)
	}
	if l.MigrationsDir == "" {
		l.MigrationsDir = "assets/migrations/" + l.Dialect
	}

	lockTimeout, err := parseDurationAllowEmpty(l.LockTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: lookup.lock_timeout: %w", err)
	}
	l.LockTimeout = lockTimeout
	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.ApplicationName == "" {
		d.ApplicationName = defaultApplicationName
	}
	if d.ConnectAttempts < 0 {
		return fmt.Errorf("config: database.connect_attempts must not be negative")
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// MigrationURL は golang-migrate 用のデータベース URL を返します。
func (c Config) MigrationURL() string {
	if c.Lookup.Dialect == DialectSQLServer {
		return c.SQLServer.DSN
	}
	return c.Database.DSN()
}
