package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigEnvironmentHelpers(t *testing.T) {
	dev := &Config{Server: ServerConfig{Env: "development"}}
	assert.True(t, dev.IsDevelopment())
	assert.False(t, dev.IsProduction())

	prod := &Config{Server: ServerConfig{Env: "production"}}
	assert.False(t, prod.IsDevelopment())
	assert.True(t, prod.IsProduction())
}

func TestConfigGetDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db.internal",
			Port:     "5432",
			User:     "pos",
			Password: "secret",
			Name:     "pos",
			SSLMode:  "require",
		},
	}

	assert.Equal(t,
		"host=db.internal port=5432 user=pos password=secret dbname=pos sslmode=require",
		cfg.GetDSN())
}

func TestConfigLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9001")
	t.Setenv("POS_VERIFY_PRICES", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://pos.example.com, https://kiosk.example.com")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "9001", cfg.Server.Port)
	assert.True(t, cfg.POS.VerifyPrices)
	assert.Equal(t,
		[]string{"https://pos.example.com", "https://kiosk.example.com"},
		cfg.CORS.AllowedOrigins)
}
