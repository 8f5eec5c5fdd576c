// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Jayam07/UrbanComm/internal/config"
	"github.com/Jayam07/UrbanComm/internal/database"
	"github.com/Jayam07/UrbanComm/internal/server"
	"github.com/urfave/cli/v3"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "urbancomm",
		Usage:   "Multi-vendor marketplace seller API",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags:   config.Flags(),
		Action:  server.Run,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Flags: config.Flags(),
				Commands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "Apply all pending migrations",
						Flags:  config.Flags(),
						Action: migrateUp,
					},
					{
						Name:   "down",
						Usage:  "Roll back the most recent migration",
						Flags:  config.Flags(),
						Action: migrateDown,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// migrateUp opens the database, which applies pending migrations on the way.
func migrateUp(_ context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	return db.Close()
}

func migrateDown(_ context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	return database.MigrateDown(db.DB)
}
