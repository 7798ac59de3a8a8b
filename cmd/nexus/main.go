// nexus is the command-line client for the Nexus job board.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/app"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/config"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/db"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/db/migrate"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/health"
	jobservice "github.com/prabhakarsharma95/Nexus-Frontend/internal/job/service"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/nav"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/policy/engine"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/session/repository"
	sessionservice "github.com/prabhakarsharma95/Nexus-Frontend/internal/session/service"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/telemetry"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/telemetry/loki"
	telemetryotel "github.com/prabhakarsharma95/Nexus-Frontend/internal/telemetry/otel"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/telemetry/producer"
	userservice "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/service"
)

var version = "dev"

func main() {
	log.SetFlags(0)
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v", err)
		return app.ExitError
	}

	providers, err := telemetryotel.NewProviders(ctx, telemetryotel.Options{
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       cfg.OTLPInsecure,
		ServiceName:    "nexus",
		ServiceVersion: version,
		Environment:    cfg.Env,
	})
	if err != nil {
		log.Printf("telemetry: %v", err)
		return app.ExitError
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("telemetry: shutdown: %v", err)
		}
	}()
	kafkaEvents := producer.NewKafkaEmitter(cfg.KafkaBrokersList(), cfg.KafkaTopic)
	defer func() {
		if err := kafkaEvents.Close(); err != nil {
			log.Printf("telemetry: kafka close: %v", err)
		}
	}()
	events := telemetry.Multi(
		telemetryotel.NewEventEmitter(providers.LoggerProvider),
		kafkaEvents,
		loki.NewEmitter(cfg.LokiURL, cfg.Timeout()),
	)
	defer telemetry.Drain(5 * time.Second)

	repo, sqlDB, err := openStore(cfg)
	if err != nil {
		log.Printf("session store: %v", err)
		return app.ExitError
	}
	if sqlDB != nil {
		defer sqlDB.Close()
	}
	creds := repository.NewCredentialStore(repo)

	recorder := nav.NewRecorder()
	client := apiclient.New(cfg.APIURL, creds, cfg.Timeout())
	store := sessionservice.NewStore(client, creds)
	client.OnUnauthorized(store.Reset)
	client.OnUnauthorized(func() {
		recorder.Navigate(nav.Landing, "")
		telemetry.EmitAsync(events, ctx, &telemetry.Event{Type: telemetry.EventSessionExpired, Source: "cli"})
	})

	access, err := engine.NewOPAEvaluatorFromFile(cfg.AccessPolicyFile)
	if err != nil {
		log.Printf("access policy: %v", err)
		return app.ExitError
	}

	var pinger health.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}

	store.Rehydrate(ctx)

	shell := app.New(app.Deps{
		Session:   store,
		API:       client,
		Jobs:      jobservice.New(client, access, recorder),
		Profile:   userservice.NewProfileService(client, store),
		Nav:       recorder,
		Events:    events,
		Health:    health.NewChecker(pinger, access, client),
		PageLimit: cfg.PageLimit,
		Token:     creds.Token,
		In:        os.Stdin,
		Out:       os.Stdout,
		Err:       os.Stderr,
	})
	return shell.Run(ctx, os.Args[1:])
}

// openStore returns the credential repository for cfg, migrating SQL stores first.
// The returned *sql.DB is nil for the memory driver.
func openStore(cfg *config.Config) (repository.Repository, *sql.DB, error) {
	if cfg.StoreDriver == config.DriverMemory {
		return repository.NewMemoryRepository(), nil, nil
	}
	if err := migrate.Run(cfg.StoreDriver, cfg.StoreDSN, "up"); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, nil, err
	}
	sqlDB, err := db.Open(cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		return nil, nil, err
	}
	if cfg.StoreDriver == config.DriverPostgres {
		return repository.NewPostgresRepository(sqlDB), sqlDB, nil
	}
	return repository.NewSQLiteRepository(sqlDB), sqlDB, nil
}
