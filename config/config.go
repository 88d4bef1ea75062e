package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHTTPAddr        = ":8080"
	DefaultSessionTTL      = 7 * 24 * time.Hour
	DefaultSessionCookie   = "portal_session"
	DefaultFiveMTimeout    = 5 * time.Second
	DefaultMaxUploadBytes  = 8 << 20
	DefaultReapplyCooldown = 24 * time.Hour
	DefaultNATSPrefix      = "portal"
	DefaultEnvironment     = "production"
	DefaultUploadDir       = "uploads"
	developmentEnvironment = "development"
	DefaultStaticDir       = "web/dist"
)

// DefaultPublicPaths are page routes reachable without a session.
var DefaultPublicPaths = []string{"/", "/login", "/rules", "/activities", "/contests"}

// Config struct to hold the configuration settings
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Postgres      PostgresConfig      `yaml:"postgres"`
	FiveM         FiveMConfig         `yaml:"fivem"`
	Discord       DiscordConfig       `yaml:"discord"`
	Session       SessionConfig       `yaml:"session"`
	Whitelist     WhitelistConfig     `yaml:"whitelist"`
	NATS          NATSConfig          `yaml:"nats"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// HTTPConfig holds the HTTP server settings.
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	BaseURL        string   `yaml:"base_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	StaticDir      string   `yaml:"static_dir"`
	UploadDir      string   `yaml:"upload_dir"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	PublicPaths    []string `yaml:"public_paths"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// FiveMConfig points at the game server database (db-fivem).
type FiveMConfig struct {
	DSN          string        `yaml:"dsn"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

// DiscordConfig holds the OAuth application, bot and guild settings.
type DiscordConfig struct {
	ClientID     string       `yaml:"client_id"`
	ClientSecret string       `yaml:"client_secret"`
	RedirectURL  string       `yaml:"redirect_url"`
	BotToken     string       `yaml:"bot_token"`
	GuildID      string       `yaml:"guild_id"`
	LogChannelID string       `yaml:"log_channel_id"`
	Roles        RoleIDConfig `yaml:"roles"`
}

// RoleIDConfig maps portal roles to Discord role IDs.
type RoleIDConfig struct {
	Admin          string `yaml:"admin"`
	Staff          string `yaml:"staff"`
	WhitelistAdder string `yaml:"whitelist_adder"`
	Whitelisted    string `yaml:"whitelisted"`
	Blacklisted    string `yaml:"blacklisted"`
}

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	Secret     string        `yaml:"secret"`
	TTL        time.Duration `yaml:"ttl"`
	CookieName string        `yaml:"cookie_name"`
}

// WhitelistConfig holds whitelist workflow settings.
type WhitelistConfig struct {
	ReapplyCooldown time.Duration `yaml:"reapply_cooldown"`
}

// NATSConfig holds the optional NATS forwarding settings.
type NATSConfig struct {
	URL           string `yaml:"url"`
	NKeySeed      string `yaml:"nkey_seed"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	MetricsAddress string `yaml:"metrics_address"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// --- OVERRIDE WITH ENV VARS IF PRESENT ---
func applyEnvOverrides(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("DATABASE_URL", &cfg.Postgres.DSN)
	setString("FIVEM_DATABASE_URL", &cfg.FiveM.DSN)

	setString("DISCORD_CLIENT_ID", &cfg.Discord.ClientID)
	setString("DISCORD_CLIENT_SECRET", &cfg.Discord.ClientSecret)
	setString("DISCORD_REDIRECT_URL", &cfg.Discord.RedirectURL)
	setString("DISCORD_BOT_TOKEN", &cfg.Discord.BotToken)
	setString("DISCORD_GUILD_ID", &cfg.Discord.GuildID)
	setString("DISCORD_LOG_CHANNEL_ID", &cfg.Discord.LogChannelID)
	setString("DISCORD_ROLE_ADMIN", &cfg.Discord.Roles.Admin)
	setString("DISCORD_ROLE_STAFF", &cfg.Discord.Roles.Staff)
	setString("DISCORD_ROLE_WHITELIST_ADDER", &cfg.Discord.Roles.WhitelistAdder)
	setString("DISCORD_ROLE_WHITELISTED", &cfg.Discord.Roles.Whitelisted)
	setString("DISCORD_ROLE_BLACKLISTED", &cfg.Discord.Roles.Blacklisted)

	setString("SESSION_SECRET", &cfg.Session.Secret)
	setString("SESSION_COOKIE_NAME", &cfg.Session.CookieName)

	setString("HTTP_ADDR", &cfg.HTTP.Addr)
	setString("BASE_URL", &cfg.HTTP.BaseURL)
	setString("STATIC_DIR", &cfg.HTTP.StaticDir)
	setString("UPLOAD_DIR", &cfg.HTTP.UploadDir)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("PUBLIC_PATHS"); v != "" {
		cfg.HTTP.PublicPaths = splitList(v)
	}

	setString("NATS_URL", &cfg.NATS.URL)
	setString("NATS_NKEY_SEED", &cfg.NATS.NKeySeed)
	setString("NATS_SUBJECT_PREFIX", &cfg.NATS.SubjectPrefix)

	setString("METRICS_ADDRESS", &cfg.Observability.MetricsAddress)
	setString("LOG_LEVEL", &cfg.Observability.LogLevel)
	setString("ENV", &cfg.Observability.Environment)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SESSION_TTL", &cfg.Session.TTL},
		{"FIVEM_QUERY_TIMEOUT", &cfg.FiveM.QueryTimeout},
		{"WHITELIST_REAPPLY_COOLDOWN", &cfg.Whitelist.ReapplyCooldown},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %v", d.key, err)
		}
		*d.dst = parsed
	}

	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_BYTES value: %v", err)
		}
		cfg.HTTP.MaxUploadBytes = n
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.HTTP.StaticDir == "" {
		c.HTTP.StaticDir = DefaultStaticDir
	}
	if c.HTTP.UploadDir == "" {
		c.HTTP.UploadDir = DefaultUploadDir
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		c.HTTP.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if len(c.HTTP.PublicPaths) == 0 {
		c.HTTP.PublicPaths = append([]string(nil), DefaultPublicPaths...)
	}
	if c.FiveM.QueryTimeout <= 0 {
		c.FiveM.QueryTimeout = DefaultFiveMTimeout
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = DefaultSessionTTL
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultSessionCookie
	}
	if c.Whitelist.ReapplyCooldown <= 0 {
		c.Whitelist.ReapplyCooldown = DefaultReapplyCooldown
	}
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = DefaultNATSPrefix
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = DefaultEnvironment
	}
}

// Validate reports every missing required setting at once.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"postgres.dsn (DATABASE_URL)", c.Postgres.DSN},
		{"fivem.dsn (FIVEM_DATABASE_URL)", c.FiveM.DSN},
		{"discord.client_id (DISCORD_CLIENT_ID)", c.Discord.ClientID},
		{"discord.client_secret (DISCORD_CLIENT_SECRET)", c.Discord.ClientSecret},
		{"discord.redirect_url (DISCORD_REDIRECT_URL)", c.Discord.RedirectURL},
		{"discord.bot_token (DISCORD_BOT_TOKEN)", c.Discord.BotToken},
		{"discord.guild_id (DISCORD_GUILD_ID)", c.Discord.GuildID},
		{"discord.roles.admin (DISCORD_ROLE_ADMIN)", c.Discord.Roles.Admin},
		{"session.secret (SESSION_SECRET)", c.Session.Secret},
	}

	var errs []error
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}
	if c.Session.Secret != "" && len(c.Session.Secret) < 32 {
		errs = append(errs, errors.New("session.secret must be at least 32 characters"))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether the portal runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Observability.Environment == developmentEnvironment
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	if c.IsDevelopment() {
		return false
	}
	return !strings.HasPrefix(c.HTTP.BaseURL, "http://")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
