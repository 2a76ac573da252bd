package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ProviderConfig holds the settings for one outbound rate provider.
type ProviderConfig struct {
	APIURL string
	APIKey string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	ExchangeRate  ProviderConfig
	CoinMarketCap ProviderConfig
	// ProviderTimeout bounds every outbound provider call (connect + total).
	ProviderTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("EXCHANGERATE_API_URL", "https://v6.exchangerate-api.com/v6")
	viper.SetDefault("EXCHANGERATE_API_KEY", "")
	viper.SetDefault("COINMARKETCAP_API_URL", "https://pro-api.coinmarketcap.com/v1")
	viper.SetDefault("COINMARKETCAP_API_KEY", "")
	viper.SetDefault("PROVIDER_HTTP_TIMEOUT", "10s")

	viper.AutomaticEnv()

	cfg := &Config{}
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.ExchangeRate = ProviderConfig{
		APIURL: viper.GetString("EXCHANGERATE_API_URL"),
		APIKey: viper.GetString("EXCHANGERATE_API_KEY"),
	}
	cfg.CoinMarketCap = ProviderConfig{
		APIURL: viper.GetString("COINMARKETCAP_API_URL"),
		APIKey: viper.GetString("COINMARKETCAP_API_KEY"),
	}
	cfg.ProviderTimeout = viper.GetDuration("PROVIDER_HTTP_TIMEOUT")

	return cfg, nil
}
