package oauth2client

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/spf13/viper"
)

// Config holds the endpoints, credentials and timeouts of a client.
type Config struct {
	// AuthURL is the client-credentials token endpoint.
	AuthURL string `mapstructure:"auth_url"`

	// BaseURL is the API root; requests go to BaseURL/Version/path.
	BaseURL string `mapstructure:"base_url"`

	// Version is the API version segment, e.g. "v1".
	Version string `mapstructure:"version"`

	// PublicKey is the store's client id.
	PublicKey string `mapstructure:"public_key"`

	// SecretKey is the store's client secret.
	SecretKey string `mapstructure:"secret_key"`

	// RequestTimeout bounds each API call, including the wait for a token.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// TokenTimeout bounds each call to the token endpoint.
	TokenTimeout time.Duration `mapstructure:"token_timeout"`

	// TokenLifetime is the longest a token is reused.
	TokenLifetime time.Duration `mapstructure:"token_lifetime"`
}

// DefaultConfig returns the production Moltin endpoints with no credentials.
func DefaultConfig() Config {
	return Config{
		AuthURL:        "https://api.molt.in/oauth/access_token",
		BaseURL:        "https://api.molt.in",
		Version:        "v1",
		RequestTimeout: 10 * time.Second,
		TokenTimeout:   10 * time.Second,
		TokenLifetime:  DefaultTokenLifetime,
	}
}

// Credentials returns the key pair configured in c.
func (c Config) Credentials() Credentials {
	return Credentials{PublicKey: c.PublicKey, SecretKey: c.SecretKey}
}

// Validate reports the first missing or malformed setting.
func (c Config) Validate() error {
	var errs []error
	if !govalidator.IsURL(c.AuthURL) {
		errs = append(errs, fmt.Errorf("auth_url %q is not a valid URL", c.AuthURL))
	}
	if !govalidator.IsURL(c.BaseURL) {
		errs = append(errs, fmt.Errorf("base_url %q is not a valid URL", c.BaseURL))
	}
	if strings.Trim(c.Version, "/") == "" {
		errs = append(errs, errors.New("version is empty"))
	}
	if c.PublicKey == "" || c.SecretKey == "" {
		errs = append(errs, errors.New("public_key and secret_key are required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, errors.Join(errs...))
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the optional file at path
// (yaml, json or toml), then MOLTIN_* environment variables. Later sources
// take precedence over earlier ones.
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	d := DefaultConfig()
	v.SetDefault("auth_url", d.AuthURL)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("version", d.Version)
	v.SetDefault("public_key", "")
	v.SetDefault("secret_key", "")
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("token_timeout", d.TokenTimeout)
	v.SetDefault("token_lifetime", d.TokenLifetime)

	v.SetEnvPrefix("moltin")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
