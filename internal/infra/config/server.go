package config

import "time"

// ServerConfig represents the admin gRPC server configuration.
type ServerConfig struct {
	Port int    `mapstructure:"port" validate:"required,gte=1024,lte=65535"`
	TLS  TLS    `mapstructure:"tls"`
	Mode string `mapstructure:"mode" validate:"required,oneof=development production"`
	// AdminSecret signs the bearer tokens accepted by the admin service.
	AdminSecret string            `mapstructure:"admin_secret" validate:"required_if=Mode production,omitempty,min=32"`
	TokenTTL    time.Duration     `mapstructure:"token_ttl"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
}

// TLS represents the TLS configuration.
type TLS struct {
	Enabled      bool   `mapstructure:"enabled"`
	CertFile     string `mapstructure:"cert_file"      validate:"required_if=Enabled true"`
	KeyFile      string `mapstructure:"key_file"       validate:"required_if=Enabled true"`
	ClientCAFile string `mapstructure:"client_ca_file"`
	ClientAuth   string `mapstructure:"client_auth"    validate:"omitempty,oneof=NoClientCert RequestClientCert RequireAnyClientCert VerifyClientCertIfGiven RequireAndVerifyClientCert"`
}

// RateLimiterConfig bounds admin calls per authenticated caller.
type RateLimiterConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"  validate:"gte=0"`
	Burst   int     `mapstructure:"burst" validate:"gte=0"`
}
