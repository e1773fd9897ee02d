package config

import (
	stdLog "log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/library-ledger/pkg/auth"
	"github.com/Astemirdum/library-ledger/pkg/kafka"
	"github.com/Astemirdum/library-ledger/pkg/logger"
	"github.com/Astemirdum/library-ledger/pkg/postgres"
)

type Config struct {
	Server   Server
	Database postgres.DB
	Log      logger.Log
	Kafka    kafka.Config
	Auth     auth.Config
}

type Server struct {
	Host         string        `envconfig:"AUDIT_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `envconfig:"AUDIT_HTTP_PORT" default:"8090"`
	ReadTimeout  time.Duration `envconfig:"AUDIT_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"AUDIT_HTTP_WRITE_TIMEOUT" default:"10s"`
}

var (
	once sync.Once
	cfg  *Config
)

func NewConfig() *Config {
	once.Do(func() {
		cfg = new(Config)
		if err := envconfig.Process("", cfg); err != nil {
			stdLog.Fatal("envconfig.Process: ", err)
		}
	})
	return cfg
}
