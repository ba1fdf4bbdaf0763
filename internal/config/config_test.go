package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// setRequiredEnv supplies the three keys deployments provide only through the
// environment.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ARGUELY_AI_APIKEY", "gsk-test")
	t.Setenv("ARGUELY_ENCRYPTION_KEY", testEncryptionKey)
	t.Setenv("ARGUELY_JWT_SECRET", "test-secret")
}

func TestLoadFromEnvironmentOnly(t *testing.T) {
	viper.Reset()
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gsk-test", cfg.AI.APIKey)
	assert.Equal(t, testEncryptionKey, cfg.Encryption.Key)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)

	// defaults still apply for everything not overridden
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.AI.SmartModel)
	assert.Equal(t, 30, cfg.RateLimit.Requests)
	assert.Equal(t, 60, cfg.RateLimit.WindowSeconds)
}

func TestLoadEnvOverridesNestedKeys(t *testing.T) {
	viper.Reset()
	setRequiredEnv(t)
	t.Setenv("ARGUELY_SERVER_ADDRESS", ":9090")
	t.Setenv("ARGUELY_DB_HOST", "db.internal")
	t.Setenv("ARGUELY_RATELIMIT_REQUESTS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
}

func TestLoadRequiresMandatoryKeys(t *testing.T) {
	cases := []struct {
		name string
		omit string
	}{
		{"missing encryption key", "ARGUELY_ENCRYPTION_KEY"},
		{"missing api key", "ARGUELY_AI_APIKEY"},
		{"missing jwt secret", "ARGUELY_JWT_SECRET"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			viper.Reset()
			setRequiredEnv(t)
			t.Setenv(tc.omit, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidateEncryptionKey(t *testing.T) {
	assert.NoError(t, ValidateEncryptionKey(testEncryptionKey))

	bad := []string{
		"",
		"abcd",
		strings.Repeat("0", 63),
		strings.Repeat("0", 65),
		strings.Repeat("z", 64),
	}
	for _, key := range bad {
		assert.Error(t, ValidateEncryptionKey(key), "key %q", key)
	}
}
