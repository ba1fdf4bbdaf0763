package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	AI         AIConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Encryption EncryptionConfig
	JWT        JWTConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

type AIConfig struct {
	APIKey     string
	BaseURL    string
	SmartModel string
	FastModel  string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

type EncryptionConfig struct {
	// 64 hex characters (32 bytes), validated at load
	Key string
}

type JWTConfig struct {
	Secret string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.user", "")
	viper.SetDefault("db.password", "")
	viper.SetDefault("db.name", "")
	viper.SetDefault("db.port", 5432)
	viper.SetDefault("ai.apikey", "")
	viper.SetDefault("ai.baseurl", "https://api.groq.com/openai/v1")
	viper.SetDefault("ai.smartmodel", "llama-3.3-70b-versatile")
	viper.SetDefault("ai.fastmodel", "llama-3.1-8b-instant")
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("ratelimit.requests", 30)
	viper.SetDefault("ratelimit.windowseconds", 60)
	viper.SetDefault("encryption.key", "")
	viper.SetDefault("jwt.secret", "")

	// ARGUELY_AI_APIKEY -> ai.apikey; every key needs a default above or
	// Unmarshal will not see its env value.
	viper.SetEnvPrefix("arguely")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// config file is optional when everything comes from the environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if err := ValidateEncryptionKey(c.Encryption.Key); err != nil {
		return err
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("ai.apikey is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	return nil
}

// ValidateEncryptionKey checks that the key is a 64-character hex string (32 bytes).
func ValidateEncryptionKey(key string) error {
	if len(key) != 64 {
		return fmt.Errorf("encryption.key must be a 64-character hex string (32 bytes)")
	}
	if _, err := hex.DecodeString(key); err != nil {
		return fmt.Errorf("encryption.key is not valid hex: %w", err)
	}
	return nil
}
