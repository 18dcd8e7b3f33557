package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	LogLevel   string           `mapstructure:"log_level"`
	Workers    int              `mapstructure:"workers"`
	Platform   PlatformConfig   `mapstructure:"platform"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Features   FeaturesConfig   `mapstructure:"features"`
	Targets    TargetsConfig    `mapstructure:"targets"`
	Output     OutputConfig     `mapstructure:"output"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	API        APIConfig        `mapstructure:"api"`
}

type PlatformConfig struct {
	Type          string `mapstructure:"type"`
	DataPath      string `mapstructure:"data_path"`
	AssistantName string `mapstructure:"assistant_name"`
}

type ProcessingConfig struct {
	FilterPhrases []string           `mapstructure:"filter_phrases"`
	MinLength     int                `mapstructure:"min_length"`
	MaxLength     int                `mapstructure:"max_length"`
	Dedup         DedupConfig        `mapstructure:"dedup"`
	RoleTransfer  RoleTransferConfig `mapstructure:"role_transfer"`
}

type DedupConfig struct {
	Scope     string `mapstructure:"scope"`
	Normalize string `mapstructure:"normalize"`
}

type RoleTransferConfig struct {
	AssistantToUser []string `mapstructure:"assistant_to_user"`
	UserToAssistant []string `mapstructure:"user_to_assistant"`
}

type FeaturesConfig struct {
	Enabled     []string `mapstructure:"enabled"`
	NResponses  int      `mapstructure:"n_responses"`
	MinReplyLen int      `mapstructure:"min_reply_len"`
}

type TargetsConfig struct {
	Enabled []string `mapstructure:"enabled"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type NATSConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

type APIConfig struct {
	Port int `mapstructure:"port"`
}

// Load reads the YAML config at path, fills in defaults, and applies
// environment overrides for the credentials that usually live outside the
// file.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("workers", 4)
	v.SetDefault("platform.type", "facebook")
	v.SetDefault("platform.data_path", "data/input")
	v.SetDefault("processing.dedup.scope", "off")
	v.SetDefault("processing.dedup.normalize", "none")
	v.SetDefault("features.n_responses", 3)
	v.SetDefault("features.min_reply_len", 20)
	v.SetDefault("output.dir", "data/output")
	v.SetDefault("api.port", 8760)

	// Nested keys map to env vars with dots replaced, e.g. API_PORT.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if natsURL := v.GetString("NATS_URL"); natsURL != "" {
		cfg.NATS.URL = natsURL
	}
	if natsToken := v.GetString("NATS_TOKEN"); natsToken != "" {
		cfg.NATS.Token = natsToken
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Platform.Type != "facebook" {
		return fmt.Errorf("unsupported platform type %q", c.Platform.Type)
	}
	if c.Platform.DataPath == "" {
		return fmt.Errorf("platform.data_path is required")
	}
	switch c.Processing.Dedup.Scope {
	case "off", "consecutive", "global":
	default:
		return fmt.Errorf("invalid dedup scope %q", c.Processing.Dedup.Scope)
	}
	switch c.Processing.Dedup.Normalize {
	case "none", "case", "space", "case_space":
	default:
		return fmt.Errorf("invalid dedup normalize %q", c.Processing.Dedup.Normalize)
	}
	if c.Processing.MinLength < 0 || c.Processing.MaxLength < 0 {
		return fmt.Errorf("message length bounds must not be negative")
	}
	if c.Processing.MaxLength > 0 && c.Processing.MinLength > c.Processing.MaxLength {
		return fmt.Errorf("processing.min_length %d exceeds max_length %d",
			c.Processing.MinLength, c.Processing.MaxLength)
	}
	return nil
}
