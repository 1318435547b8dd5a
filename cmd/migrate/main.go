package main

import (
	"flag"
	"log"

	"github.com/ogurasousui/enum-lookup-seeder/internal/platform/config"
	"github.com/ogurasousui/enum-lookup-seeder/internal/platform/migration"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "", "directory containing migration files (defaults to lookup.migrations_dir)")
	)
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dir := *migrationsDir
	if dir == "" {
		dir = cfg.Lookup.MigrationsDir
	}

	if err := migration.Run(action, dir, cfg.MigrationURL(), nil); err != nil {
		log.Fatalf("migration %s failed: %v", action, err)
	}

	log.Printf("migration %s completed", action)
}
