package main

import (
	"database/sql"
	"flag"
	"fmt"

	"loyalty-hub/pkg/config"
	"loyalty-hub/pkg/database"
	"loyalty-hub/pkg/logger"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		dir     = flag.String("dir", "migrations", "directory with migration files")
		command = flag.String("command", "up", "migration command (up, up-to, down, down-to, redo, reset, status, version, create)")
		name    = flag.String("name", "", "name for new migration (used with create command)")
		version = flag.Int64("version", 0, "target version (used with up-to and down-to)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	log := logger.NewWithLevel(cfg.LogLevel, cfg.Environment)

	db, err := sql.Open("postgres", database.DSN(cfg))
	if err != nil {
		log.Error("Failed to open database: %v", err)
		panic(err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Error("Failed to set dialect: %v", err)
		panic(err)
	}
	goose.SetTableName("loyalty_schema_migrations")

	if err := run(db, *command, *dir, *name, *version); err != nil {
		log.Error("Migration command %s failed: %v", *command, err)
		panic(err)
	}
	log.Info("Migration command %s finished", *command)
}

func run(db *sql.DB, command, dir, name string, version int64) error {
	switch command {
	case "create":
		if name == "" {
			return fmt.Errorf("name is required for create command")
		}
		return goose.Create(db, dir, name, "sql")
	case "up":
		return goose.Up(db, dir)
	case "up-to":
		if version <= 0 {
			return fmt.Errorf("version is required for up-to")
		}
		return goose.UpTo(db, dir, version)
	case "down-to":
		return goose.DownTo(db, dir, version)
	case "down":
		return goose.Down(db, dir)
	case "redo":
		return goose.Redo(db, dir)
	case "reset":
		return goose.Reset(db, dir)
	case "status":
		return goose.Status(db, dir)
	case "version":
		return goose.Version(db, dir)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}
