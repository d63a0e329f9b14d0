package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/weiawesome/paper-review-chat/pkg/config"
)

type Config struct {
	API      APIConfig
	Paper    PaperConfig
	Identity IdentityConfig
	Chat     ChatConfig
	Log      LogConfig
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PaperConfig struct {
	DefaultID string `mapstructure:"default_id"`
}

type IdentityConfig struct {
	Path string
}

type ChatConfig struct {
	ExclusiveSend bool `mapstructure:"exclusive_send"`
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads ./config/paperchat.yaml (or the file at path when non-empty)
// and the environment.
func Load(path string) (*Config, error) {
	var (
		v   *viper.Viper
		err error
	)
	if path != "" {
		v, err = pkgconfig.LoadFile(path)
	} else {
		v, err = pkgconfig.Load("./config", "paperchat")
	}
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("paper.default_id", "PRP01")
	v.SetDefault("identity.path", defaultIdentityPath())
	v.SetDefault("chat.exclusive_send", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.pretty", true)

	// Override from environment
	v.BindEnv("api.base_url", "API_BASE_URL")
	v.BindEnv("api.timeout", "API_TIMEOUT")
	v.BindEnv("paper.default_id", "DEFAULT_PAPER_ID")
	v.BindEnv("identity.path", "PAPERCHAT_IDENTITY")
	v.BindEnv("chat.exclusive_send", "EXCLUSIVE_SEND")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.API.Timeout = parseDuration(v, "api.timeout", 30*time.Second)

	return &cfg, nil
}

func defaultIdentityPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".paperchat", "session.yaml")
	}
	return filepath.Join(home, ".paperchat", "session.yaml")
}

// parseDuration accepts Go duration strings; "0" disables the setting.
func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	if str == "0" {
		return 0
	}
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}
