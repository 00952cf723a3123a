package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/orcidgate/internal/security/secretbox"
)

// Config is the full runtime configuration of orcidgate.
// Values come from a YAML file, then environment overrides, in that order.
type Config struct {
	App struct {
		Name string `yaml:"name"`
		Env  string `yaml:"env"` // dev | staging | prod
		// BaseURL is the public URL this service is reachable at. It is
		// used to autogenerate the ORCID redirect URL when one is not set.
		BaseURL string `yaml:"base_url"`
		// FrontendURL is where signed-in researchers are sent after the
		// callback completes. Usually the application root.
		FrontendURL string `yaml:"frontend_url"`
	} `yaml:"app"`

	Server struct {
		Addr         string `yaml:"addr"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`

	ORCID struct {
		ClientID string `yaml:"client_id"`
		// ClientSecret may carry the enc: prefix, see secretbox.
		ClientSecret string `yaml:"client_secret"`
		RedirectURL  string `yaml:"redirect_url"`
		AuthorizeURL string `yaml:"authorize_url"`
		TokenURL     string `yaml:"token_url"`
		Scope        string `yaml:"scope"`
		Timeout      string `yaml:"timeout"`
	} `yaml:"orcid"`

	State struct {
		// SigningKey is a base64 Ed25519 seed, may carry the enc: prefix.
		// When empty, a volatile key is generated at startup.
		SigningKey string `yaml:"signing_key"`
		TTL        string `yaml:"ttl"`
		// Required rejects callbacks whose state is missing or unverifiable.
		// Off by default: ORCID sends users back without state when the
		// authorize URL was built without one.
		Required bool `yaml:"required"`
	} `yaml:"state"`

	Session struct {
		CookieName string `yaml:"cookie_name"`
		TTL        string `yaml:"ttl"`
		Domain     string `yaml:"domain"`
		SameSite   string `yaml:"same_site"` // Strict | Lax | None
		Secure     bool   `yaml:"secure"`
	} `yaml:"session"`

	Storage struct {
		Driver string `yaml:"driver"` // memory | postgres
		// DSN may carry the enc: prefix, see secretbox.
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns        int    `yaml:"max_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind   string `yaml:"kind"` // memory | redis
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		// Password may carry the enc: prefix, see secretbox.
		Password           string `yaml:"password"`
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"` // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	} `yaml:"smtp"`

	Notify struct {
		// SignInEmail mails the operations inbox when a researcher signs
		// in for the first time. Requires SMTP to be configured.
		SignInEmail bool   `yaml:"sign_in_email"`
		To          string `yaml:"to"`
	} `yaml:"notify"`

	Admin struct {
		// TokenHash is the argon2id hash of the admin API bearer token.
		// Empty disables the admin surface.
		TokenHash string `yaml:"token_hash"`
	} `yaml:"admin"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json | console
	} `yaml:"log"`
}

// Load reads the YAML file at path, fills defaults, applies environment
// overrides and validates the result. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.decryptSecrets(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Autogenerate the redirect URL from the public base URL so a single
	// setting covers the common case.
	if cfg.ORCID.RedirectURL == "" && cfg.App.BaseURL != "" {
		cfg.ORCID.RedirectURL = strings.TrimRight(cfg.App.BaseURL, "/") + "/auth/orcid/callback"
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "orcidgate"
	}
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.FrontendURL == "" {
		c.App.FrontendURL = "/"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.ORCID.AuthorizeURL == "" {
		c.ORCID.AuthorizeURL = "https://orcid.org/oauth/authorize"
	}
	if c.ORCID.TokenURL == "" {
		c.ORCID.TokenURL = "https://orcid.org/oauth/token"
	}
	if c.ORCID.Scope == "" {
		c.ORCID.Scope = "/authenticate"
	}
	if c.ORCID.Timeout == "" {
		c.ORCID.Timeout = "10s"
	}
	if c.State.TTL == "" {
		c.State.TTL = "10m"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "sid"
	}
	if c.Session.TTL == "" {
		c.Session.TTL = "12h"
	}
	if c.Session.SameSite == "" {
		c.Session.SameSite = "Lax"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.Postgres.MaxConns == 0 {
		c.Storage.Postgres.MaxConns = 8
	}
	if c.Storage.Postgres.ConnMaxLifetime == "" {
		c.Storage.Postgres.ConnMaxLifetime = "30m"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "orcidgate"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func (c *Config) applyEnvOverrides() {
	c.App.Name = getEnvStr("APP_NAME", c.App.Name)
	c.App.Env = getEnvStr("APP_ENV", c.App.Env)
	c.App.BaseURL = getEnvStr("APP_BASE_URL", c.App.BaseURL)
	c.App.FrontendURL = getEnvStr("APP_FRONTEND_URL", c.App.FrontendURL)

	c.Server.Addr = getEnvStr("SERVER_ADDR", c.Server.Addr)
	c.Server.ReadTimeout = getEnvStr("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvStr("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)

	c.ORCID.ClientID = getEnvStr("ORCID_CLIENT_ID", c.ORCID.ClientID)
	c.ORCID.ClientSecret = getEnvStr("ORCID_CLIENT_SECRET", c.ORCID.ClientSecret)
	c.ORCID.RedirectURL = getEnvStr("ORCID_REDIRECT_URL", c.ORCID.RedirectURL)
	c.ORCID.AuthorizeURL = getEnvStr("ORCID_AUTHORIZE_URL", c.ORCID.AuthorizeURL)
	c.ORCID.TokenURL = getEnvStr("ORCID_TOKEN_URL", c.ORCID.TokenURL)
	c.ORCID.Scope = getEnvStr("ORCID_SCOPE", c.ORCID.Scope)
	c.ORCID.Timeout = getEnvStr("ORCID_TIMEOUT", c.ORCID.Timeout)

	c.State.SigningKey = getEnvStr("STATE_SIGNING_KEY", c.State.SigningKey)
	c.State.TTL = getEnvStr("STATE_TTL", c.State.TTL)
	c.State.Required = getEnvBool("STATE_REQUIRED", c.State.Required)

	c.Session.CookieName = getEnvStr("SESSION_COOKIE_NAME", c.Session.CookieName)
	c.Session.TTL = getEnvStr("SESSION_TTL", c.Session.TTL)
	c.Session.Domain = getEnvStr("SESSION_DOMAIN", c.Session.Domain)
	c.Session.SameSite = getEnvStr("SESSION_SAMESITE", c.Session.SameSite)
	c.Session.Secure = getEnvBool("SESSION_SECURE", c.Session.Secure)

	c.Storage.Driver = getEnvStr("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.DSN = getEnvStr("STORAGE_DSN", c.Storage.DSN)
	c.Storage.Postgres.MaxConns = getEnvInt("STORAGE_PG_MAX_CONNS", c.Storage.Postgres.MaxConns)
	c.Storage.Postgres.ConnMaxLifetime = getEnvStr("STORAGE_PG_CONN_MAX_LIFETIME", c.Storage.Postgres.ConnMaxLifetime)

	c.Cache.Kind = getEnvStr("CACHE_KIND", c.Cache.Kind)
	c.Cache.Memory.DefaultTTL = getEnvStr("CACHE_MEMORY_TTL", c.Cache.Memory.DefaultTTL)
	c.Cache.Redis.Addr = getEnvStr("REDIS_ADDR", c.Cache.Redis.Addr)
	c.Cache.Redis.Password = getEnvStr("REDIS_PASSWORD", c.Cache.Redis.Password)
	c.Cache.Redis.DB = getEnvInt("REDIS_DB", c.Cache.Redis.DB)
	c.Cache.Redis.Prefix = getEnvStr("REDIS_PREFIX", c.Cache.Redis.Prefix)

	c.Rate.Enabled = getEnvBool("RATE_ENABLED", c.Rate.Enabled)
	c.Rate.Login.Limit = getEnvInt("RATE_LOGIN_LIMIT", c.Rate.Login.Limit)
	c.Rate.Login.Window = getEnvStr("RATE_LOGIN_WINDOW", c.Rate.Login.Window)

	c.SMTP.Host = getEnvStr("SMTP_HOST", c.SMTP.Host)
	c.SMTP.Port = getEnvInt("SMTP_PORT", c.SMTP.Port)
	c.SMTP.Username = getEnvStr("SMTP_USERNAME", c.SMTP.Username)
	c.SMTP.Password = getEnvStr("SMTP_PASSWORD", c.SMTP.Password)
	c.SMTP.From = getEnvStr("SMTP_FROM", c.SMTP.From)
	c.SMTP.TLS = getEnvStr("SMTP_TLS", c.SMTP.TLS)
	c.SMTP.InsecureSkipVerify = getEnvBool("SMTP_INSECURE_SKIP_VERIFY", c.SMTP.InsecureSkipVerify)

	c.Notify.SignInEmail = getEnvBool("NOTIFY_SIGNIN_EMAIL", c.Notify.SignInEmail)
	c.Notify.To = getEnvStr("NOTIFY_TO", c.Notify.To)

	c.Admin.TokenHash = getEnvStr("ADMIN_TOKEN_HASH", c.Admin.TokenHash)

	c.Log.Level = getEnvStr("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvStr("LOG_FORMAT", c.Log.Format)
}

// decryptSecrets resolves enc:-prefixed values in place. Requires
// SECRETBOX_MASTER_KEY when any such value is present.
func (c *Config) decryptSecrets() error {
	fields := []struct {
		name string
		val  *string
	}{
		{"orcid.client_secret", &c.ORCID.ClientSecret},
		{"state.signing_key", &c.State.SigningKey},
		{"storage.dsn", &c.Storage.DSN},
		{"smtp.password", &c.SMTP.Password},
		{"cache.redis.password", &c.Cache.Redis.Password},
	}
	for _, f := range fields {
		v, err := maybeDecrypt(*f.val)
		if err != nil {
			return fmt.Errorf("config: decrypt %s: %w", f.name, err)
		}
		*f.val = v
	}
	return nil
}

const encPrefix = "enc:"

func maybeDecrypt(v string) (string, error) {
	if !strings.HasPrefix(v, encPrefix) {
		return v, nil
	}
	return secretbox.Decrypt(strings.TrimPrefix(v, encPrefix))
}

// Validate checks cross-field consistency and that every duration string
// parses. It does not reach the network.
func (c *Config) Validate() error {
	durations := []struct {
		name string
		val  string
	}{
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"orcid.timeout", c.ORCID.Timeout},
		{"state.ttl", c.State.TTL},
		{"session.ttl", c.Session.TTL},
		{"storage.postgres.conn_max_lifetime", c.Storage.Postgres.ConnMaxLifetime},
		{"cache.memory.default_ttl", c.Cache.Memory.DefaultTTL},
		{"rate.login.window", c.Rate.Login.Window},
	}
	for _, d := range durations {
		if _, err := time.ParseDuration(d.val); err != nil {
			return fmt.Errorf("config: %s: invalid duration %q", d.name, d.val)
		}
	}

	switch c.Storage.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("config: storage.driver: unknown driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" && c.Storage.DSN == "" {
		return fmt.Errorf("config: storage.dsn is required for the postgres driver")
	}

	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: cache.kind: unknown kind %q", c.Cache.Kind)
	}
	if c.Cache.Kind == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("config: cache.redis.addr is required for the redis cache")
	}
	if c.Rate.Enabled && c.Cache.Kind != "redis" {
		return fmt.Errorf("config: rate limiting requires the redis cache")
	}

	switch strings.ToLower(c.Session.SameSite) {
	case "strict", "lax", "none":
	default:
		return fmt.Errorf("config: session.same_site: unknown mode %q", c.Session.SameSite)
	}

	if c.Notify.SignInEmail {
		if c.SMTP.Host == "" {
			return fmt.Errorf("config: notify.sign_in_email requires smtp.host")
		}
		if c.Notify.To == "" {
			return fmt.Errorf("config: notify.sign_in_email requires notify.to")
		}
	}

	if c.IsProd() {
		if c.ORCID.ClientID == "" || c.ORCID.ClientSecret == "" {
			return fmt.Errorf("config: orcid.client_id and orcid.client_secret are required in prod")
		}
		if !c.Session.Secure {
			return fmt.Errorf("config: session.secure must be true in prod")
		}
	}

	return nil
}

// IsProd reports whether the service runs with the production profile.
func (c *Config) IsProd() bool {
	return strings.EqualFold(c.App.Env, "prod") || strings.EqualFold(c.App.Env, "production")
}

// Dur returns the parsed duration for a value already checked by Validate.
func Dur(v string) time.Duration {
	d, _ := time.ParseDuration(v)
	return d
}

func getEnvStr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
