package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/palina-pauliuchenka/arkouda-njit/pkg/api"
	"github.com/palina-pauliuchenka/arkouda-njit/pkg/graph"
	"github.com/palina-pauliuchenka/arkouda-njit/pkg/mincut"
	"github.com/palina-pauliuchenka/arkouda-njit/pkg/service"
	"github.com/palina-pauliuchenka/arkouda-njit/pkg/wcc"
)

func main() {
	graphPath := flag.String("graph", "", "edge-list file of the graph served by this backend")
	wccConfigPath := flag.String("wcc-config", "", "optional refinement configuration file")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("Starting well-connected components backend")

	if *graphPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := service.LoadConfig()
	log.Info().
		Str("address", cfg.Server.Address).
		Int("max_workers", cfg.Jobs.MaxWorkers).
		Dur("job_timeout", cfg.Jobs.JobTimeout).
		Msg("Configuration loaded")

	g, err := graph.NewReader().ReadFromFile(*graphPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *graphPath).Msg("Failed to load graph")
	}
	log.Info().
		Int64("vertices", g.NumVertices()).
		Int64("edges", g.NumEdges()).
		Msg("Graph loaded")

	wccCfg := wcc.NewConfig()
	if *wccConfigPath != "" {
		if err := wccCfg.LoadFromFile(*wccConfigPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to load refinement configuration")
		}
	}

	jobs := service.NewJobService(g, mincut.NewStoerWagner(), wccCfg, cfg.Jobs)
	defer jobs.Close()
	handlers := api.NewHandlers(g, jobs, cfg.Server.UploadDir)

	router := mux.NewRouter()
	api.SetupRoutes(router, handlers)
	router.Use(api.LoggingMiddleware)
	router.Use(api.RecoveryMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      cors.AllowAll().Handler(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server shutdown complete")
}
