package main

import (
	"context"
	"time"

	"github.com/rajpandit/expense-tracker/internal/config"
	"github.com/rajpandit/expense-tracker/internal/logger"
	"github.com/rajpandit/expense-tracker/internal/store"
)

func main() {
	log := logger.New()

	cfg, err := config.Load(false, false)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := store.Open(cfg.DBFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	log.Info().Str("db_file", cfg.DBFile).Msg("Schema is up to date")
}
