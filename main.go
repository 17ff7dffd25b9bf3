package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/card-matchup/catalog"
	"github.com/danielhkuo/card-matchup/cliparse"
	"github.com/danielhkuo/card-matchup/commands"
	"github.com/danielhkuo/card-matchup/db"
	"github.com/danielhkuo/card-matchup/jobs"
	"github.com/danielhkuo/card-matchup/ledger"
	"github.com/danielhkuo/card-matchup/matchup"
	"github.com/danielhkuo/card-matchup/ratings"
	"github.com/danielhkuo/card-matchup/router"
	"github.com/danielhkuo/card-matchup/sweeper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	if cfg.Command != "serve" && !commands.Exists(cfg.Command) {
		slog.Error("unknown command", "command", cfg.Command)
		commands.Usage(os.Stderr)
		os.Exit(2)
	}

	// Connect to the matchup database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Open the card catalog
	cat, err := catalog.Open(cfg.CatalogPath, cfg.CatalogLanguages)
	if err != nil {
		slog.Error("catalog open failed", "error", err)
		os.Exit(1)
	}
	defer cat.Close()

	store := ratings.NewStore(dbConn, cat)
	votes := ledger.New(dbConn, cat, store)
	votes.VerifyCatalog = cfg.VerifyVoteCards
	sweep := sweeper.New(dbConn)

	if cfg.Command != "serve" {
		code := runCommand(cfg, commands.Deps{
			Ratings: store,
			Ledger:  votes,
			Sweeper: sweep,
		})
		cat.Close()
		dbConn.Close()
		os.Exit(code)
	}

	// Scheduled retention sweep
	job := jobs.NewSweepJob(sweep, jobs.SweepConfig{
		Schedule: cfg.SweepSchedule,
		MaxAge:   time.Duration(cfg.SweepMaxAgeHours) * time.Hour,
	})
	if err := job.Start(); err != nil {
		slog.Error("sweep schedule failed", "error", err)
		os.Exit(1)
	}

	// Create server
	server := http.Server{
		Handler: router.NewRouter(router.Deps{
			Issuer:  matchup.NewIssuer(dbConn, cat, cfg.MaxAttempts),
			Ledger:  votes,
			Ratings: store,
		}),
		Addr: ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		job.Stop(ctx)
		server.Shutdown(ctx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// runCommand executes an admin command and returns the process exit code
func runCommand(cfg cliparse.Config, deps commands.Deps) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Run(ctx, os.Stdout, deps, cfg.Command, cfg.CommandArgs); err != nil {
		slog.Error("command failed", "command", cfg.Command, "error", err)
		return 1
	}
	return 0
}
