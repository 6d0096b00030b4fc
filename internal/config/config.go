package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Upload    UploadConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Retention RetentionConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type UploadConfig struct {
	// MaxSizeBytes caps the multipart body read for one upload.
	MaxSizeBytes int64
	// AllowedExtensions gates file types before decoding.
	AllowedExtensions []string
}

type DatabaseConfig struct {
	// DSN is the postgres connection string; empty disables the
	// analysis history entirely.
	DSN string
}

type AuthConfig struct {
	// JWTSecret protects the history endpoints; empty disables auth.
	JWTSecret string
}

type RetentionConfig struct {
	// Days after which stored analyses are deleted; 0 keeps everything.
	Days int
}

// Load reads configuration from an optional config file and OCEANEYE_*
// environment variables, on top of the defaults below.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("upload.max_size_bytes", 16*1024*1024)
	v.SetDefault("upload.allowed_extensions", []string{"png", "jpg", "jpeg", "webp", "bmp"})
	v.SetDefault("database.dsn", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("retention.days", 0)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/oceaneye")

	v.SetEnvPrefix("OCEANEYE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
		Upload: UploadConfig{
			MaxSizeBytes:      v.GetInt64("upload.max_size_bytes"),
			AllowedExtensions: v.GetStringSlice("upload.allowed_extensions"),
		},
		Database: DatabaseConfig{
			DSN: v.GetString("database.dsn"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
		},
		Retention: RetentionConfig{
			Days: v.GetInt("retention.days"),
		},
	}

	if cfg.Upload.MaxSizeBytes <= 0 {
		return nil, fmt.Errorf("upload.max_size_bytes must be positive")
	}
	if len(cfg.Upload.AllowedExtensions) == 0 {
		return nil, fmt.Errorf("upload.allowed_extensions must not be empty")
	}

	return cfg, nil
}
