package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	DSN string
}

type LoggingConfig struct {
	Level string
}

// QuotesConfig selects the price source. Mode "sim" runs the seeded
// random-walk feed; "http" pulls from URL.
type QuotesConfig struct {
	Mode     string
	URL      string
	Seed     int64
	Interval time.Duration
}

// EngineConfig lifts the account-model constants out of the calculation layer
// so different account types can be modeled per deployment.
type EngineConfig struct {
	Leverage       float64
	ContractSize   float64
	MaxVolumeLots  float64
	BaselineEquity float64
}

type AppConfig struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Quotes   QuotesConfig
	Engine   EngineConfig
}

func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("DATABASE_DSN", "data/propdesk.db")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("QUOTES_MODE", "sim")
	viper.SetDefault("QUOTES_URL", "")
	viper.SetDefault("QUOTES_SEED", 1)
	viper.SetDefault("QUOTES_INTERVAL", "5s")
	viper.SetDefault("ENGINE_LEVERAGE", 100.0)
	viper.SetDefault("ENGINE_CONTRACT_SIZE", 100000.0)
	viper.SetDefault("ENGINE_MAX_VOLUME_LOTS", 100.0)
	viper.SetDefault("ACCOUNT_BASELINE_EQUITY", 100000.0)

	interval, err := time.ParseDuration(viper.GetString("QUOTES_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid quotes interval: %w", err)
	}

	cfg := &AppConfig{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			DSN: viper.GetString("DATABASE_DSN"),
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Quotes: QuotesConfig{
			Mode:     viper.GetString("QUOTES_MODE"),
			URL:      viper.GetString("QUOTES_URL"),
			Seed:     viper.GetInt64("QUOTES_SEED"),
			Interval: interval,
		},
		Engine: EngineConfig{
			Leverage:       viper.GetFloat64("ENGINE_LEVERAGE"),
			ContractSize:   viper.GetFloat64("ENGINE_CONTRACT_SIZE"),
			MaxVolumeLots:  viper.GetFloat64("ENGINE_MAX_VOLUME_LOTS"),
			BaselineEquity: viper.GetFloat64("ACCOUNT_BASELINE_EQUITY"),
		},
	}

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}
	if cfg.Quotes.Mode == "http" && cfg.Quotes.URL == "" {
		return nil, fmt.Errorf("QUOTES_URL is required when QUOTES_MODE is http")
	}

	return cfg, nil
}
