package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags_OverridesConfig(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	cfg := &Config{}
	cfg.LoadDefaults()

	os.Args = []string{"testbin", "-a", ":3000", "-d", "postgres://flag/healthsync", "-s", "flag-secret", "-t", "60"}
	parseFlags(cfg)

	assert.Equal(t, ":3000", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://flag/healthsync", cfg.DatabaseDSN)
	assert.Equal(t, "flag-secret", cfg.SecretKey)
	assert.Equal(t, 60*time.Minute, cfg.AccessTokenValidityDuration)
}

func Test_parseFlags_NoFlagsKeepDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	before := *cfg

	parseFlags(cfg)

	assert.Equal(t, before, *cfg)
}
