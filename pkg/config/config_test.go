package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 5000, cfg.DB.LockTimeoutMs, "por defecto la espera por locks debe estar acotada")
	assert.Equal(t, 20, cfg.Pagination.DefaultSize)
	assert.Equal(t, 100, cfg.Pagination.MaxSize)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_EnvStrings(t *testing.T) {
	v := viper.New()
	v.Set("DB_LOCK_TIMEOUT_MS", "1500")
	v.Set("DB_AUTO_MIGRATE", "true")
	v.Set("PAGE_SIZE_MAX", "50")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 1500, cfg.DB.LockTimeoutMs)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 50, cfg.Pagination.MaxSize)
}

func TestFromViper_PaginacionInconsistente(t *testing.T) {
	v := viper.New()
	v.Set("PAGE_SIZE_DEFAULT", 200)
	v.Set("PAGE_SIZE_MAX", 100)

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "piecework", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/piecework?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://other"
	assert.Equal(t, "postgres://other", c.ConnectionString())
}
