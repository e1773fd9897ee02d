package postgres_test

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-ledger/pkg/postgres"
)

func TestDB_DSN(t *testing.T) {
	cfg := postgres.DB{
		Host:     "db",
		Port:     "5432",
		Username: "ledger",
		Password: "p@ss word",
		NameDB:   "library",
		SSLMode:  "disable",
	}
	dsn := cfg.DSN()
	require.Equal(t, "postgres://ledger:p%40ss%20word@db:5432/library?sslmode=disable", dsn)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	conn := *poolCfg.ConnConfig
	require.Equal(t, "p@ss word", conn.Password)
	require.Equal(t, "library", conn.Database)
	require.Equal(t, uint16(5432), conn.Port)
}
