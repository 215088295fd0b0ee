package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	Gallery GalleryConfig `mapstructure:"gallery"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GeminiConfig holds generation backend configuration. The API key is
// only ever read server-side; it must never reach client code.
type GeminiConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	ImagenModel     string        `mapstructure:"imagen_model"`
	ImagenFastModel string        `mapstructure:"imagen_fast_model"`
	EditModel       string        `mapstructure:"edit_model"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// GalleryConfig holds gallery persistence configuration.
type GalleryConfig struct {
	StorageKey string `mapstructure:"storage_key"`
	MaxBatch   int    `mapstructure:"max_batch"`
}

// CORSConfig holds CORS configuration for the browser front end.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/imagestudio")

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found, use defaults and env
	}

	// Read from environment variables
	v.SetEnvPrefix("IMAGESTUDIO")
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Override with environment variables for sensitive values
	if key := os.Getenv("IMAGESTUDIO_GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}
	if password := os.Getenv("IMAGESTUDIO_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini api key is required (set IMAGESTUDIO_GEMINI_API_KEY)")
	}
	if c.Gallery.MaxBatch < 1 || c.Gallery.MaxBatch > 4 {
		return fmt.Errorf("gallery.max_batch must be between 1 and 4, got %d", c.Gallery.MaxBatch)
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)

	// Redis defaults
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// Gemini defaults
	v.SetDefault("gemini.imagen_model", "imagen-4.0-generate-001")
	v.SetDefault("gemini.imagen_fast_model", "imagen-4.0-generate-001")
	v.SetDefault("gemini.edit_model", "gemini-2.5-flash-image")
	v.SetDefault("gemini.request_timeout", 90*time.Second)

	// Gallery defaults
	v.SetDefault("gallery.storage_key", "generatedImages")
	v.SetDefault("gallery.max_batch", 4)

	// CORS defaults
	v.SetDefault("cors.allow_origins", []string{"http://localhost:5173"})

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
