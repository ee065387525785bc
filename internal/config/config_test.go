package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "market")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "market_db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("APP_PORT", "")
	t.Setenv("PAYMENT_DECLINE_ALL", "")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "market_db", cfg.DBName)
	assert.Equal(t, "8080", cfg.AppPort, "port should fall back to default")
	assert.True(t, cfg.PaymentApprove)
}

func TestLoadConfig_DeclinePayments(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("PAYMENT_DECLINE_ALL", "true")

	cfg := LoadConfig()

	assert.False(t, cfg.PaymentApprove)
}
