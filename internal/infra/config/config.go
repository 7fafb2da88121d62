package config

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App      AppSettings      `mapstructure:"app"`
	Telegram TelegramSettings `mapstructure:"telegram"`
	Registry RegistrySettings `mapstructure:"registry"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// TelegramSettings configures the Bot API transport.
type TelegramSettings struct {
	Token             string        `mapstructure:"token"`
	PollTimeout       time.Duration `mapstructure:"poll_timeout"`
	AdminCheckTimeout time.Duration `mapstructure:"admin_check_timeout"`
}

// RegistrySettings bounds the lifetime of in-memory registration state.
type RegistrySettings struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("PENNY")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"telegram.token",
		"telegram.poll_timeout",
		"telegram.admin_check_timeout",
		"registry.ttl",
		"registry.sweep_interval",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *AppConfig) error {
	if err := ValidateBotToken(cfg.Telegram.Token); err != nil {
		return fmt.Errorf("telegram token: %w", err)
	}
	if cfg.Registry.TTL <= 0 {
		return fmt.Errorf("registry ttl must be positive")
	}
	if cfg.Registry.SweepInterval <= 0 {
		return fmt.Errorf("registry sweep interval must be positive")
	}
	return nil
}

// ValidateBotToken checks the <bot_id>:<secret> shape of a Bot API token
// before the process attempts to authenticate with it.
func ValidateBotToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("missing (set PENNY_TELEGRAM_TOKEN)")
	}

	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 {
		return fmt.Errorf("expected <bot_id>:<secret> format")
	}

	botID, secret := parts[0], parts[1]
	if len(botID) < 8 || !isDigits(botID) {
		return fmt.Errorf("bot id segment must be numeric")
	}
	if len(secret) < 20 {
		return fmt.Errorf("secret segment too short")
	}

	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "penny-lane")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)

	v.SetDefault("telegram.poll_timeout", "30s")
	v.SetDefault("telegram.admin_check_timeout", "5s")

	v.SetDefault("registry.ttl", "5m")
	v.SetDefault("registry.sweep_interval", "45s")
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "PENNY_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
