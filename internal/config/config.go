package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Images   ImageConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Path string
}

type ImageConfig struct {
	// MaxConcurrentDecodes bounds how many uploads may be decoding at
	// once; decoding large images is the memory-heavy part of ingest.
	MaxConcurrentDecodes int64
}

// Load reads configuration from an optional .env file and the
// environment, with sensible defaults for local use.
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_PATH", "garderoba.db")
	viper.SetDefault("IMAGE_MAX_DECODES", 4)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Path: viper.GetString("DB_PATH"),
		},
		Images: ImageConfig{
			MaxConcurrentDecodes: viper.GetInt64("IMAGE_MAX_DECODES"),
		},
	}
}
