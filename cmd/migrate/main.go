package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/pawfinder/pawfinder-backend/pkg/config"
	"github.com/pawfinder/pawfinder-backend/pkg/db"
	"github.com/pawfinder/pawfinder-backend/pkg/logger"
	"github.com/pawfinder/pawfinder-backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|status|down-to")
	version := flag.Int64("version", 0, "target version for -cmd=down-to")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(ctx, map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(ctx, "failed to unwrap sql database", err)
		os.Exit(1)
	}

	switch *cmd {
	case "up":
		if err := migrate.Up(ctx, sqlDB); err != nil {
			logg.Error(ctx, "goose up failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "migrations applied")

	case "status":
		statuses, err := migrate.Status(ctx, sqlDB)
		if err != nil {
			logg.Error(ctx, "goose status failed", err)
			os.Exit(1)
		}
		for _, s := range statuses {
			fmt.Printf("%d\t%s\t%s\n", s.Source.Version, s.State, s.Source.Path)
		}

	case "down-to":
		if err := migrate.DownTo(ctx, sqlDB, *version); err != nil {
			logg.Error(ctx, "goose down-to failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "migrations rolled back")

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", *cmd)
		os.Exit(1)
	}
}
