package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	pgrepo "github.com/ogurasousui/enum-lookup-seeder/internal/adapters/repository/postgres"
	msrepo "github.com/ogurasousui/enum-lookup-seeder/internal/adapters/repository/sqlserver"
	"github.com/ogurasousui/enum-lookup-seeder/internal/core/catalog"
	"github.com/ogurasousui/enum-lookup-seeder/internal/core/lookup"
	"github.com/ogurasousui/enum-lookup-seeder/internal/platform/config"
	pg "github.com/ogurasousui/enum-lookup-seeder/internal/platform/db/postgres"
	msdb "github.com/ogurasousui/enum-lookup-seeder/internal/platform/db/sqlserver"
	"github.com/ogurasousui/enum-lookup-seeder/internal/platform/server"
	"golang.org/x/sync/errgroup"
)

const seedConcurrency = 4

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	grpcServer := server.New(cfg.Server.ListenAddr)

	closeDB, err := initLookupTables(ctx, cfg, newLookupService)
	if err != nil {
		log.Fatalf("failed to initialize lookup tables: %v", err)
	}
	defer closeDB()
	grpcServer.MarkSeeded()

	log.Printf("gRPC server listening on %s", cfg.Server.ListenAddr)

	if err := grpcServer.Run(ctx); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}

type serviceOpener func(ctx context.Context, cfg *config.Config) (lookup.UseCase, func(), error)

// initLookupTables はデータベースへ接続し、設定に応じてルックアップテーブルを同期します。
// データベースが未作成の場合は初回マイグレーション前とみなし、同期を省略して起動を続けます。
func initLookupTables(ctx context.Context, cfg *config.Config, open serviceOpener) (func(), error) {
	svc, closeDB, err := open(ctx, cfg)
	if err != nil {
		if errors.Is(err, pg.ErrDatabaseNotFound) || errors.Is(err, msdb.ErrDatabaseNotFound) {
			log.Printf("lookup: database not found while seeding lookup tables; this is expected before the initial migration: %v", err)
			return func() {}, nil
		}
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if cfg.Lookup.SeedOnStart {
		if err := seedAll(ctx, svc); err != nil {
			closeDB()
			return nil, err
		}
	}
	return closeDB, nil
}

func newLookupService(ctx context.Context, cfg *config.Config) (lookup.UseCase, func(), error) {
	switch cfg.Lookup.Dialect {
	case config.DialectSQLServer:
		db, err := msdb.Open(ctx, cfg.SQLServer.DSN)
		if err != nil {
			return nil, nil, err
		}
		repo := msrepo.NewLookupRepository(db, cfg.Lookup.Schema)
		return lookup.NewService(repo, msdb.NewTransactionManager(db), nil), closeSQL(db), nil
	default:
		pool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := pgrepo.NewLookupRepository(pool, cfg.Lookup.Schema)
		tx := pg.NewTransactionManager(pool, pg.WithLockTimeout(cfg.Lookup.LockTimeout))
		return lookup.NewService(repo, tx, nil), closePool(pool), nil
	}
}

// seedAll はカタログ上のテーブルを並行して同期します。テーブル同士は独立しています。
func seedAll(ctx context.Context, svc lookup.UseCase) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seedConcurrency)
	for _, table := range catalog.Tables() {
		g.Go(func() error {
			result, err := svc.Seed(gctx, table)
			if err != nil {
				return fmt.Errorf("seed %s: %w", table.Name, err)
			}
			log.Printf("lookup table %s: %d inserted, %d planned", table.Name, result.Inserted, len(result.Plan.Rows))
			return nil
		})
	}
	return g.Wait()
}

func closeSQL(db *sql.DB) func() {
	return func() { _ = db.Close() }
}

func closePool(pool *pgxpool.Pool) func() {
	return pool.Close
}
