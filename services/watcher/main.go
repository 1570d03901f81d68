package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/parkmap/services/watcher/internal/config"
	"github.com/02loveslollipop/parkmap/services/watcher/internal/db"
	"github.com/02loveslollipop/parkmap/services/watcher/internal/feed"
	"github.com/02loveslollipop/parkmap/services/watcher/internal/models"
	"github.com/02loveslollipop/parkmap/services/watcher/internal/utils"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("watcher failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+10*time.Second)
	defer cancel()

	var entries []models.FeedLocation
	if cfg.FeedFile != "" {
		entries, err = feed.ReadLocations(cfg.FeedFile)
	} else {
		client := &http.Client{Timeout: cfg.RequestTimeout}
		entries, err = feed.FetchLocations(ctx, client, cfg.FeedURL)
	}
	if err != nil {
		return err
	}

	rows := utils.BuildLocationRows(entries)
	log.Printf("fetched %d feed entries, %d valid", len(entries), len(rows))
	if len(rows) == 0 {
		// never replace a good list with an empty one
		return errors.New("feed contains no valid locations")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if !cfg.DryRun {
		if err := db.EnsureSchema(ctx, pool); err != nil {
			return err
		}
	}

	stored, err := db.FetchLocations(ctx, pool)
	if err != nil {
		return err
	}

	pending := utils.FilterChanged(rows, stored, cfg.CoordEpsilon)
	stale := len(stored) - len(rows)
	if stale < 0 || !cfg.Prune {
		stale = 0
	}

	if len(pending) == 0 && stale == 0 {
		log.Printf("locations unchanged (%d rows)", len(rows))
		return nil
	}

	log.Printf("prepared %d changed locations, %d to prune (dry-run=%v)", len(pending), stale, cfg.DryRun)

	if cfg.DryRun {
		for _, row := range pending {
			log.Printf("dry-run: would upsert ordinal=%d title=%q lat=%.6f lng=%.6f", row.Ordinal, row.Title, row.Lat, row.Lng)
		}
		return nil
	}

	if err := db.UpsertLocations(ctx, pool, pending); err != nil {
		return err
	}
	if cfg.Prune {
		removed, err := db.DeleteBeyond(ctx, pool, len(rows))
		if err != nil {
			return err
		}
		log.Printf("pruned %d locations", removed)
	}

	log.Printf("upserted %d locations", len(pending))
	return nil
}
