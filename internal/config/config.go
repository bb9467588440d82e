package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const EnvPrefix = "TGFOCUS"

var ErrMissingConfig = errors.New("config file not found")

type Config struct {
	ApiId             int32  `mapstructure:"api_id"`
	ApiHash           string `mapstructure:"api_hash"`
	SessionName       string `mapstructure:"session_name"`
	Phone             string `mapstructure:"phone"`
	TDataDir          string `mapstructure:"tdata_dir"`
	StateDir          string `mapstructure:"state_dir"`
	IgnorePinnedChats bool   `mapstructure:"ignore_pinned_chats"`
	LogLevel          string `mapstructure:"log_level"`
	TdlibVerbosity    int32  `mapstructure:"tdlib_verbosity"`

	Exclude []string `mapstructure:"-"`
}

var keys = []string{
	"api_id", "api_hash", "session_name", "phone", "tdata_dir", "state_dir",
	"ignore_pinned_chats", "log_level", "tdlib_verbosity", "exclude",
}

// InitConfiguration reads the JSON config file at path. Values can be
// overridden by TGFOCUS_* environment variables, which may also come from a
// .env file in the working directory.
func InitConfiguration(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	v.SetDefault("ignore_pinned_chats", true)
	v.SetDefault("tdata_dir", ".")
	v.SetDefault("state_dir", ".")
	v.SetDefault("log_level", "info")
	v.SetDefault("tdlib_verbosity", 1)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Exclude = parseExclude(v.Get("exclude"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// parseExclude accepts either a comma-separated string or a list.
func parseExclude(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case nil:
		return nil
	case string:
		parts = strings.Split(val, ",")
	case []any:
		for _, item := range val {
			parts = append(parts, cast.ToString(item))
		}
	default:
		parts = cast.ToStringSlice(val)
	}

	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}

	return res
}

func (c *Config) validate() error {
	var missing []string
	if c.ApiId == 0 {
		missing = append(missing, "api_id")
	}
	if c.ApiHash == "" {
		missing = append(missing, "api_hash")
	}
	if c.SessionName == "" {
		missing = append(missing, "session_name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("configuration error: missing %s", strings.Join(missing, ", "))
	}

	return nil
}
