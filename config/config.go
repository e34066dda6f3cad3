package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/galleria"
	galleriahttp "github.com/sagarc03/galleria/http"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for galleria.
type Config struct {
	Server ServerConfig            `mapstructure:"server" yaml:"server"`
	Auth   AuthConfig              `mapstructure:"auth" yaml:"auth" validate:"-"`
	Store  StoreConfig             `mapstructure:"store" yaml:"store"`
	CORS   galleriahttp.CORSConfig `mapstructure:"cors" yaml:"cors"`
	Log    LogConfig               `mapstructure:"log" yaml:"log"`
	Env    string                  `mapstructure:"env" yaml:"env" validate:"omitempty,oneof=dev prod"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host          string `mapstructure:"host" yaml:"host" validate:"required"`
	Port          int    `mapstructure:"port" yaml:"port" validate:"required,min=1,max=65535"`
	Debug         bool   `mapstructure:"debug" yaml:"debug"`
	MaxUploadSize int64  `mapstructure:"max_upload_size" yaml:"max_upload_size" validate:"min=0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AuthConfig holds the login credentials and session settings.
//
// It is not checked by Load: commands that only touch the store run without
// credentials. Commands that need them call Validate.
type AuthConfig struct {
	SecretKey     string `mapstructure:"secret_key" yaml:"secret_key" validate:"required"`
	Salt          string `mapstructure:"salt" yaml:"salt" validate:"required"`
	Username      string `mapstructure:"username" yaml:"username" validate:"required"`
	Password      string `mapstructure:"password" yaml:"password" validate:"required"`
	CookieName    string `mapstructure:"cookie_name" yaml:"cookie_name" validate:"required"`
	CookieTimeout int    `mapstructure:"cookie_timeout" yaml:"cookie_timeout" validate:"min=1"`
	CookieSecure  bool   `mapstructure:"cookie_secure" yaml:"cookie_secure"`
}

// Validate checks that credentials and session settings are present.
func (a AuthConfig) Validate() error {
	if err := validator.New().Struct(a); err != nil {
		return fmt.Errorf("validate auth config: %w", err)
	}
	return nil
}

// Credentials returns the configured login pair.
func (a AuthConfig) Credentials() galleria.Credentials {
	return galleria.Credentials{Username: a.Username, Password: a.Password}
}

// CookieTTL returns the session lifetime.
func (a AuthConfig) CookieTTL() time.Duration {
	return time.Duration(a.CookieTimeout) * time.Second
}

// StoreConfig holds image store configuration.
type StoreConfig struct {
	Path       string   `mapstructure:"path" yaml:"path" validate:"required"`
	Digest     string   `mapstructure:"digest" yaml:"digest" validate:"required,oneof=md5 blake2b"`
	MaxPixels  int      `mapstructure:"max_pixels" yaml:"max_pixels" validate:"min=1"`
	Extensions []string `mapstructure:"extensions" yaml:"extensions" validate:"required,min=1,dive,required"`
	MIMETypes  []string `mapstructure:"mime_types" yaml:"mime_types" validate:"required,min=1,dive,required"`
}

// ServiceConfig converts the store settings into a galleria.ServiceConfig.
func (s StoreConfig) ServiceConfig() (galleria.ServiceConfig, error) {
	digest, err := galleria.ParseDigest(s.Digest)
	if err != nil {
		return galleria.ServiceConfig{}, err
	}

	return galleria.ServiceConfig{
		Digest: digest,
		Validator: galleria.ValidatorConfig{
			Extensions: s.Extensions,
			MIMETypes:  s.MIMETypes,
			MaxPixels:  s.MaxPixels,
		},
	}, nil
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
}

const redacted = "[redacted]"

// Redacted returns a copy of cfg with secrets masked, for display.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return redacted
	}

	c.Auth.SecretKey = mask(c.Auth.SecretKey)
	c.Auth.Salt = mask(c.Auth.Salt)
	c.Auth.Password = mask(c.Auth.Password)
	return c
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"store-path": "store.path",
	"host":       "server.host",
	"port":       "server.port",
	"debug":      "server.debug",
	"log-level":  "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
// Every key needs a default, even an empty one, or AutomaticEnv never sees it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.max_upload_size", 32<<20)

	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.salt", "")
	v.SetDefault("auth.username", "")
	v.SetDefault("auth.password", "")
	v.SetDefault("auth.cookie_name", "galleria_session")
	v.SetDefault("auth.cookie_timeout", 300) // seconds
	v.SetDefault("auth.cookie_secure", false)

	v.SetDefault("store.path", "./data")
	v.SetDefault("store.digest", string(galleria.DigestMD5))
	v.SetDefault("store.max_pixels", galleria.DefaultMaxPixels)
	v.SetDefault("store.extensions", galleria.DefaultExtensions)
	v.SetDefault("store.mime_types", galleria.DefaultMIMETypes)

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST"})
	v.SetDefault("cors.allowed_headers", []string{})
	v.SetDefault("cors.exposed_headers", []string{})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("env", "")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("GALLERIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
