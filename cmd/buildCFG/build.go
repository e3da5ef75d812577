package buildCFG

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"github.com/RamezHany/Edit/internal/mailer"
	"github.com/RamezHany/Edit/internal/store"
)

type ServerConfig struct {
	Port string
}

type StorageConfig struct {
	Driver        string // memory | postgres | redis
	MasterDSN     string
	SlaveDSNs     []string
	PoolOptions   *dbpg.Options
	Redis         store.RedisConfig
	MigrationsDir string
}

type RabbitConfig struct {
	Enabled  bool
	Url      string
	Exchange string
	Queue    string
}

type SMTPConfig struct {
	Enabled bool
	mailer.SMTPConfig
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	return ServerConfig{Port: port}
}

func BuildStorageConfig(cfg *config.Config, log *zerolog.Logger) (*StorageConfig, error) {
	driver := cfg.GetString("storage.driver")
	if driver == "" {
		driver = "memory"
		log.Warn().Msg("storage.driver not set, defaulting to memory")
	}

	sc := &StorageConfig{
		Driver:        driver,
		MigrationsDir: "migrations/postgres",
	}

	switch driver {
	case "memory":
	case "postgres":
		sc.MasterDSN = cfg.GetString("storage.postgres.master_dsn")
		if sc.MasterDSN == "" {
			return nil, fmt.Errorf("storage.postgres.master_dsn is required for the postgres driver")
		}
		sc.SlaveDSNs = cfg.GetStringSlice("storage.postgres.slave_dsns")
		sc.PoolOptions = &dbpg.Options{
			MaxOpenConns: cfg.GetInt("storage.postgres.max_open_conns"),
			MaxIdleConns: cfg.GetInt("storage.postgres.max_idle_conns"),
		}
	case "redis":
		sc.Redis = store.RedisConfig{
			Addr:     cfg.GetString("storage.redis.addr"),
			Password: cfg.GetString("storage.redis.password"),
			DB:       cfg.GetInt("storage.redis.db"),
		}
		if sc.Redis.Addr == "" {
			return nil, fmt.Errorf("storage.redis.addr is required for the redis driver")
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}

	return sc, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (*RabbitConfig, error) {
	rc := &RabbitConfig{
		Enabled:  cfg.GetBool("rabbit.enabled"),
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if !rc.Enabled {
		log.Info().Msg("RabbitMQ disabled, confirmation emails will not be sent")
		return rc, nil
	}
	if rc.Url == "" || rc.Exchange == "" || rc.Queue == "" {
		return nil, fmt.Errorf("rabbit.url, rabbit.exchange and rabbit.queue are required when rabbit is enabled")
	}
	return rc, nil
}

func BuildSMTPConfig(cfg *config.Config, log *zerolog.Logger) (*SMTPConfig, error) {
	sc := &SMTPConfig{
		Enabled: cfg.GetBool("smtp.enabled"),
		SMTPConfig: mailer.SMTPConfig{
			Host:     cfg.GetString("smtp.host"),
			Port:     cfg.GetString("smtp.port"),
			From:     cfg.GetString("smtp.from"),
			Password: cfg.GetString("smtp.password"),
		},
	}
	if !sc.Enabled {
		log.Info().Msg("SMTP disabled")
		return sc, nil
	}
	if sc.Host == "" || sc.From == "" {
		return nil, fmt.Errorf("smtp.host and smtp.from are required when smtp is enabled")
	}
	if sc.Port == "" {
		sc.Port = "587"
	}
	return sc, nil
}
