package config

import (
	stdLog "log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/library-ledger/ledger/internal/loan"
	"github.com/Astemirdum/library-ledger/pkg/auth"
	"github.com/Astemirdum/library-ledger/pkg/kafka"
	"github.com/Astemirdum/library-ledger/pkg/logger"
	"github.com/Astemirdum/library-ledger/pkg/postgres"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Server   Server
	Database postgres.DB
	Log      logger.Log
	Kafka    kafka.Config
	Auth     auth.Config
	Rules    loan.Rules
	Storage  string `envconfig:"STORAGE_DRIVER" default:"postgres"`
}

type Server struct {
	Host         string        `envconfig:"LEDGER_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `envconfig:"LEDGER_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"LEDGER_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"LEDGER_HTTP_WRITE_TIMEOUT" default:"10s"`
}

var (
	once sync.Once
	cfg  *Config
)

func NewConfig(opts ...Option) *Config {
	once.Do(func() {
		cfg = new(Config)
		if err := envconfig.Process("", cfg); err != nil {
			stdLog.Fatal("envconfig.Process: ", err)
		}
		for _, opt := range opts {
			opt(cfg)
		}
	})
	return cfg
}
