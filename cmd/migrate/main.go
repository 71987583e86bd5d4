package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/storeops/backoffice/internal/infrastructure/config"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	migrationsPath := flag.String("migrations", "db/migrations", "path to migration files")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail("failed to load config: %v", err)
	}

	m, err := migrate.New("file://"+*migrationsPath, cfg.Database.DSN())
	if err != nil {
		fail("failed to initialize migrations: %v", err)
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "drop":
		err = m.Drop()
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			fail("failed to read version: %v", verr)
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return
	default:
		fail("unknown command %q (expected up, down, drop or version)", command)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fail("migration %s failed: %v", command, err)
	}
	fmt.Printf("migration %s complete\n", command)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
