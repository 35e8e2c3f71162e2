package db

import (
	"net/url"
	"testing"

	"github.com/alternativa-centar/site/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "site",
		Password: "p@ss word",
		DBName:   "alternativa",
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:5433", u.Host)
	assert.Equal(t, "/alternativa", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))

	password, ok := u.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss word", password)
}

func TestDSNRequiresSSL(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "localhost", Port: 5432, UseSSL: true})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}
