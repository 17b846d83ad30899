package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix - префикс переменных окружения: api_base_url -> HAVELOCK_API_BASE_URL
const EnvPrefix = "HAVELOCK"

// Ключи конфигурации (в файле, флагах и окружении)
const (
	KeyAPIBaseURL   = "api_base_url"
	KeyDB           = "db"
	KeyTimeout      = "timeout"
	KeyPageSize     = "page_size"
	KeyQueryRetries = "query_retries"
	KeyStaleTime    = "stale_time"
	KeyVerbose      = "verbose"
)

// ErrMissingBaseURL - адрес бэкенда не задан; клиент не стартует
var ErrMissingBaseURL = errors.New("HAVELOCK_API_BASE_URL is not set (use --api-base-url, the env var or api_base_url in the config file)")

// Config - настройки клиента администратора
type Config struct {
	APIBaseURL   string        `mapstructure:"api_base_url"`
	DBPath       string        `mapstructure:"db"`
	Timeout      time.Duration `mapstructure:"timeout"`
	PageSize     int           `mapstructure:"page_size"`
	QueryRetries uint64        `mapstructure:"query_retries"`
	StaleTime    time.Duration `mapstructure:"stale_time"`
	Verbose      bool          `mapstructure:"verbose"`
}

// SetDefaults задает значения по умолчанию. Адреса бэкенда по умолчанию нет.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDB, "havelock-admin.db")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyPageSize, 8)
	v.SetDefault(KeyQueryRetries, 0)
	v.SetDefault(KeyStaleTime, time.Duration(0))
	v.SetDefault(KeyVerbose, false)
}

// RegisterFlags добавляет глобальные флаги клиента
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("api-base-url", "", "backend base URL (env "+EnvPrefix+"_API_BASE_URL)")
	flags.String("db", "", "path to the local session database")
	flags.Duration("timeout", 0, "HTTP request timeout")
	flags.Int("page-size", 0, "rows per page in paginated lists")
	flags.Uint64("query-retries", 0, "retries for failed read queries (mutations are never retried)")
	flags.Duration("stale-time", 0, "how long loaded data is reused without a request (0: until a change invalidates it)")
	flags.BoolP("verbose", "v", false, "debug logging to stderr")
}

// BindFlags связывает флаги с ключами viper
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		KeyAPIBaseURL:   "api-base-url",
		KeyDB:           "db",
		KeyTimeout:      "timeout",
		KeyPageSize:     "page-size",
		KeyQueryRetries: "query-retries",
		KeyStaleTime:    "stale-time",
		KeyVerbose:      "verbose",
	}
	for key, name := range bindings {
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("flag --%s is not registered", name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// NewViper создает viper с окружением HAVELOCK_* и значениями по умолчанию
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load собирает конфигурацию: defaults -> файл -> окружение -> флаги.
// configFile может быть пустым.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет конфигурацию при старте
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base URL %q: expected http(s)://host[:port][/path]", c.APIBaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.StaleTime < 0 {
		return fmt.Errorf("stale time must not be negative, got %s", c.StaleTime)
	}
	if c.DBPath == "" {
		return fmt.Errorf("session database path is empty")
	}
	return nil
}
