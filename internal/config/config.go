package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	STUNURLs          []string      `mapstructure:"stun_urls" yaml:"stun_urls"`
	TURN              TURNConfig    `mapstructure:"turn" yaml:"turn"`
}

// TURNConfig controls the embedded NAT-assist TURN listener.
type TURNConfig struct {
	Enabled       bool          `mapstructure:"enabled" yaml:"enabled"`
	UDPPort       int           `mapstructure:"udp_port" yaml:"udp_port"`
	PublicIP      string        `mapstructure:"public_ip" yaml:"public_ip"`
	Realm         string        `mapstructure:"realm" yaml:"realm"`
	Secret        string        `mapstructure:"secret" yaml:"secret"`
	CredentialTTL time.Duration `mapstructure:"credential_ttl" yaml:"credential_ttl"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		LogLevel:          "info",
		AllowedOrigins:    []string{"*"},
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		STUNURLs:          []string{"stun:stun.l.google.com:19302"},
		TURN: TURNConfig{
			Enabled:       false,
			UDPPort:       3478,
			Realm:         "signald",
			CredentialTTL: 24 * time.Hour,
		},
	}
}
