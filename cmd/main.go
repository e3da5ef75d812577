package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/RamezHany/Edit/cmd/buildCFG"
	"github.com/RamezHany/Edit/internal/api/api"
	rabbitReader "github.com/RamezHany/Edit/internal/consumerWorker"
	"github.com/RamezHany/Edit/internal/rabbit"
	"github.com/RamezHany/Edit/internal/repo"
	"github.com/RamezHany/Edit/internal/service"
	"github.com/RamezHany/Edit/internal/store"

	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	cfg := config.New()
	if err := cfg.Load("config.yaml", "", "'"); err != nil {
		log.Fatal().Msgf("failed to load configuration: %v", err)
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)
	port := serverCfg.Port

	storageCfg, err := buildCFG.BuildStorageConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build storage config")
	}

	var tableStore store.TableStore
	switch storageCfg.Driver {
	case "postgres":
		db, err := dbpg.New(storageCfg.MasterDSN, storageCfg.SlaveDSNs, storageCfg.PoolOptions)
		if err != nil {
			log.Fatal().Msgf("failed to connect to DB: %v", err)
		}
		pgStore, err := store.NewPostgresStore(db, &log)
		if err != nil {
			log.Fatal().Msgf("failed to initialize postgres store: %v", err)
		}
		cwd, err := os.Getwd()
		if err != nil {
			log.Fatal().Err(err).Msg("cannot get working directory")
		}
		if err := pgStore.MigrateUp(filepath.Join(cwd, storageCfg.MigrationsDir)); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		tableStore = pgStore
		log.Info().Msg("Postgres table store ready")
	case "redis":
		redisStore, err := store.NewRedisStore(&storageCfg.Redis)
		if err != nil {
			log.Fatal().Msgf("failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		tableStore = redisStore
		log.Info().Msg("Redis table store ready")
	default:
		tableStore = store.NewMemoryStore()
		log.Info().Msg("In-memory table store ready")
	}

	repository, err := repo.NewRepository(tableStore, &log)
	if err != nil {
		log.Fatal().Msgf("failed to initialize repository: %v", err)
	}

	rabbitCfg, err := buildCFG.BuildRabbitConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load RabbitMQ config")
	}
	smtpCfg, err := buildCFG.BuildSMTPConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load SMTP config")
	}

	var pub service.Publisher
	var reader *rabbitReader.Reader
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if rabbitCfg.Enabled {
		rmq, err := rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue)
		if err != nil {
			log.Fatal().Msgf("Failed to connect to RabbitMQ: %v", err)
		}
		defer rmq.Close()
		pub = rmq

		reader = rabbitReader.NewReader(rmq, smtpCfg.SMTPConfig)
		reader.Start(workerCtx)
	}

	serviceInstance := service.NewService(repository, &log, pub)
	app := api.NewRouters(&api.Routers{Service: serviceInstance})

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", port)
		if err := app.Run(":" + port); err != nil {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	cancelWorkers()
	if reader != nil {
		reader.Stop()
	}

	log.Info().Msg("Shutdown complete")
}
