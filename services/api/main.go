package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/02loveslollipop/parkmap/services/api/config"
	"github.com/02loveslollipop/parkmap/services/api/db"
	"github.com/02loveslollipop/parkmap/services/api/engine"
	httpserver "github.com/02loveslollipop/parkmap/services/api/http"
	"github.com/02loveslollipop/parkmap/services/api/locations"
	"github.com/02loveslollipop/parkmap/services/api/logger"
	"github.com/02loveslollipop/parkmap/services/api/providers/imagery"
	"github.com/02loveslollipop/parkmap/services/api/providers/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	lg := logger.Setup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := &http.Client{Timeout: cfg.RequestTimeout}

	var src locations.Source
	switch cfg.LocationsSource {
	case config.SourceURL:
		src = locations.URLSource{Client: client, URL: cfg.LocationsURL}
	case config.SourcePostgres:
		pg, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connection error: %v", err)
		}
		defer pg.Close()
		src = pg
	case config.SourceSQLite:
		lite, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("sqlite open error: %v", err)
		}
		defer lite.Close()
		seeded, err := lite.Seed(ctx, locations.FileSource{Path: cfg.LocationsFile})
		if err != nil {
			log.Fatalf("sqlite seed error: %v", err)
		}
		if seeded > 0 {
			lg.Info("sqlite_seeded", "path", cfg.SQLitePath, "count", seeded)
		}
		src = lite
	default:
		src = locations.FileSource{Path: cfg.LocationsFile}
	}

	store, err := locations.Load(ctx, cfg.LocationsSource, src)
	if err != nil {
		// nothing can be shown without the list
		log.Fatalf("Locations could not be loaded: %v", err)
	}
	lg.Info("locations_loaded", "source", cfg.LocationsSource, "count", store.Len())

	opts := engine.Options{
		Weather: weather.NewClient(client, cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.WeatherUnits),
		Imagery: imagery.NewClient(client, cfg.ImageryAPIURL, cfg.ImageryAPIKey),
		RadiusM: cfg.ImageryRadiusM,
		Zoom:    cfg.MapZoom,
	}
	sessions := engine.NewRegistry(store, opts, cfg.SessionIdleTimeout)
	go sessions.Run(ctx)

	srv := httpserver.New(cfg, store, sessions)
	lg.Info("api_listening", "addr", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
