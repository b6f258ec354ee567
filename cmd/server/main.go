package main

import (
	"net/http"

	"github.com/dldx/renewables-lcoe-api/internal/config"
	"github.com/dldx/renewables-lcoe-api/internal/db"
	"github.com/dldx/renewables-lcoe-api/internal/geo"
	"github.com/dldx/renewables-lcoe-api/internal/logger"
	"github.com/dldx/renewables-lcoe-api/internal/migrations"
	"github.com/dldx/renewables-lcoe-api/internal/store"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.IsDev()})

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer database.Close()

	if err := migrations.Up(database, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	srv := &server{
		runs: store.NewRunStore(database),
		log:  log,
	}
	if cfg.LocationIQKey != "" {
		srv.geocoder = geo.NewGeocoder(cfg.LocationIQKey)
	}

	addr := ":" + cfg.Port
	log.Info().
		Str("addr", addr).
		Str("env", cfg.Env).
		Bool("geocoding", srv.geocoder != nil).
		Msg("starting lcoe api server")

	if err := http.ListenAndServe(addr, srv.router(cfg.APIKey)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
