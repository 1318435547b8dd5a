package main

import (
	"flag"
	"log"

	"github.com/ogurasousui/enum-lookup-seeder/internal/adapters/sqlgen"
	"github.com/ogurasousui/enum-lookup-seeder/internal/core/catalog"
	"github.com/ogurasousui/enum-lookup-seeder/internal/platform/migration"
)

func main() {
	var (
		dialectName = flag.String("dialect", "postgres", "SQL dialect (postgres or sqlserver)")
		dir         = flag.String("dir", "", "output directory (defaults to assets/migrations/<dialect>)")
		version     = flag.Uint64("version", 2, "migration version number")
		name        = flag.String("name", "seed_lookup_tables", "migration name")
		schema      = flag.String("schema", "", "schema that owns the lookup tables (defaults to public or dbo per dialect)")
	)
	flag.Parse()

	dialect, err := sqlgen.DialectByName(*dialectName)
	if err != nil {
		log.Fatalf("invalid dialect: %v", err)
	}

	outDir := *dir
	if outDir == "" {
		outDir = "assets/migrations/" + dialect.Name()
	}

	schemaName := *schema
	if schemaName == "" {
		schemaName = dialect.DefaultSchema()
	}

	file, err := migration.BuildSeedFile(dialect, *version, *name, schemaName, catalog.Tables())
	if err != nil {
		log.Fatalf("failed to build seed migration: %v", err)
	}

	result, err := migration.Write(outDir, file)
	if err != nil {
		log.Fatalf("failed to write seed migration: %v", err)
	}

	if result.Unchanged {
		log.Printf("%s is up to date", result.UpPath)
		return
	}
	log.Printf("wrote %s and %s", result.UpPath, result.DownPath)
}
