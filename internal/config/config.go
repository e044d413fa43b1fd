package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const devSessionSecret = "dev-insecure-portal-secret-change-me"

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type BackendConfig struct {
	BaseURL  string
	LoginURL string
	Timeout  time.Duration
}

type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	LogoutChannel string
	KeyPrefix     string
}

type SessionConfig struct {
	CookieName    string
	Secret        string
	MaxAge        time.Duration
	Secure        bool
	IdleTTL       time.Duration
	CredentialTTL time.Duration
}

type JobsConfig struct {
	RefreshSpec string
	SweepSpec   string
}

type LoggingConfig struct {
	Level string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Backend          BackendConfig
	Redis            RedisConfig
	Session          SessionConfig
	Jobs             JobsConfig
	Logging          LoggingConfig
	AllowCORSOrigins []string
}

// Load reads portal.yaml from the usual locations, then lets PORTAL_*
// environment variables override it (PORTAL_HTTP_PORT for http.port).
func Load() (*AppConfig, error) {
	return LoadFile("")
}

func LoadFile(path string) (*AppConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("portal")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("../config")
	}

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Backend.BaseURL = strings.TrimRight(cfg.Backend.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	var errs []error
	if c.Backend.BaseURL == "" {
		errs = append(errs, errors.New("backend.baseurl is required"))
	}
	if c.Backend.LoginURL == "" {
		errs = append(errs, errors.New("backend.loginurl is required"))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session.cookiename is required"))
	}
	if c.Environment == "production" && (c.Session.Secret == "" || c.Session.Secret == devSessionSecret) {
		errs = append(errs, errors.New("session.secret must be set in production"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "30s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("backend.baseurl", "http://127.0.0.1:8000")
	v.SetDefault("backend.loginurl", "https://journal-management-system-frontend.vercel.app")
	v.SetDefault("backend.timeout", "15s")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.logoutchannel", "portal:logout")
	v.SetDefault("redis.keyprefix", "portal:")

	v.SetDefault("session.cookiename", "portal_context")
	v.SetDefault("session.secret", devSessionSecret)
	v.SetDefault("session.maxage", "168h") // 7 days
	v.SetDefault("session.secure", false)
	v.SetDefault("session.idlettl", "2h")
	v.SetDefault("session.credentialttl", "24h")

	v.SetDefault("jobs.refreshspec", "0 */15 * * * *")
	v.SetDefault("jobs.sweepspec", "0 */5 * * * *")

	v.SetDefault("logging.level", "")
	v.SetDefault("allowcorsorigins", []string{})
}
