package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDBConfigURL(t *testing.T) {
	cfg := &DBConfig{
		Host:     "db",
		Port:     5432,
		Username: "serial",
		Password: "p@ss word",
		DBName:   "serialfic",
		SSLMode:  "disable",
	}

	assert.Equal(t, "pgx5://serial:p%40ss%20word@db:5432/serialfic?sslmode=disable", cfg.URL("pgx5"))

	cfg.SSLMode = ""
	assert.Equal(t, "postgres://serial:p%40ss%20word@db:5432/serialfic", cfg.URL("postgres"))
}

func TestPoolStats(t *testing.T) {
	s := &PoolStats{AcquiredConns: 8, MaxConns: 10}
	assert.InDelta(t, 80.0, s.Utilization(), 0.001)

	assert.Zero(t, (&PoolStats{}).Utilization())
}

func TestPingWithoutPool(t *testing.T) {
	db := NewPostgresDB(&DBConfig{})
	assert.ErrorIs(t, db.Ping(t.Context()), ErrPoolNotInitialized)
}
