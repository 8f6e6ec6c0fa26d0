package config

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// TrustedProxies lists the reverse proxies, as CIDRs or bare IPs, whose
	// X-Forwarded-For is believed. Empty means the peer address is the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
	Mongo   MongoConfig
}

type BackendConfig struct {
	// BaseURL is where the console sends backend calls.
	BaseURL string `env:"API_BASE_URL, default=http://localhost:8000"`
	// PublicURL is the backend origin as the browser sees it.
	PublicURL string        `env:"PUBLIC_API_URL"`
	Timeout   time.Duration `env:"API_TIMEOUT, default=10s"`
	AuthMode  string        `env:"AUTH_MODE,   default=bearer"`
}

type SessionConfig struct {
	CookieName string        `env:"SESSION_COOKIE_NAME, default=kosalla_token"`
	TTL        time.Duration `env:"SESSION_COOKIE_TTL,  default=168h"`
}

// RedisConfig enables the login throttle when Addr is set.
type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB,           default=0"`
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

// MongoConfig enables the persistent audit trail when URI is set.
type MongoConfig struct {
	URI       string        `env:"MONGO_URI"`
	Database  string        `env:"MONGO_DB,        default=kosalla_console"`
	Workers   int           `env:"AUDIT_WORKERS,   default=2"`
	Retention time.Duration `env:"AUDIT_RETENTION, default=2160h"`
}

// Production reports whether the console runs with production settings,
// which among other things marks the session cookie Secure.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// ProxyRanges returns TrustedProxies as networks. LoadWith has already
// rejected malformed entries.
func (c *Config) ProxyRanges() []*net.IPNet {
	ranges, _ := parseProxyRanges(c.TrustedProxies)
	return ranges
}

func parseProxyRanges(entries []string) ([]*net.IPNet, error) {
	var ranges []*net.IPNet
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: invalid address %q", entry)
			}
			bits := 8 * net.IPv4len
			if ip.To4() == nil {
				bits = 8 * net.IPv6len
			}
			entry = fmt.Sprintf("%s/%d", entry, bits)
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		ranges = append(ranges, n)
	}
	return ranges, nil
}

// Load reads a .env file when present, then the process environment.
func Load() *Config {
	_ = godotenv.Load()
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith resolves the configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if cfg.Backend.PublicURL == "" {
		cfg.Backend.PublicURL = cfg.Backend.BaseURL
	}
	switch strings.ToLower(cfg.Backend.AuthMode) {
	case "bearer", "sanctum":
	default:
		return nil, fmt.Errorf("AUTH_MODE must be bearer or sanctum, got %q", cfg.Backend.AuthMode)
	}
	if _, err := parseProxyRanges(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	return &cfg, nil
}
