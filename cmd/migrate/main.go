package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/kisanbazar/kisanbazar-backend/pkg/config"
	"github.com/kisanbazar/kisanbazar-backend/pkg/db"
	"github.com/kisanbazar/kisanbazar-backend/pkg/logger"
	"github.com/kisanbazar/kisanbazar-backend/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatalf("load config: %v", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	// create and validate work on the filesystem only.
	switch *cmd {
	case "create":
		if *name == "" {
			fatalf("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			fatalf("create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return

	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fatalf("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		fatalf("connect database: %v", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		fatalf("extract sql.DB: %v", err)
	}

	switch *cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
			fatalf("goose %s failed: %v", *cmd, err)
		}

	case "version":
		if *version == "" {
			fatalf("missing -version for version command")
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, *dir, *version); err != nil {
			fatalf("goose version migrate failed: %v", err)
		}

	default:
		fatalf("unknown -cmd value: %s", *cmd)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
