package schema

import (
	"fmt"
	"time"
)

// Config holds the validated runtime configuration for the service.
// Fields that require parsing or cross-field validation are set by
// ProcessAndValidate after all sources (file, env, flags) are merged.
type Config struct {
	ListenAddr     string          // HTTP listen address
	TLSAddr        string          // optional HTTPS listen address
	TLSCert        string          // path to TLS certificate (required with TLSAddr)
	TLSKey         string          // path to TLS key (required with TLSAddr)
	AllowOrigin    string          // value for Access-Control-Allow-Origin
	Backend        DatabaseBackend // relational backend
	DBConnect      string          // backend connection string
	RequestTimeout time.Duration   // per-request deadline for store calls
}

// ConfigRawInput holds the raw values merged by Viper before validation.
type ConfigRawInput struct {
	Addr        string `mapstructure:"addr"`
	TLSAddr     string `mapstructure:"tls-addr"`
	TLSCert     string `mapstructure:"tls-cert"`
	TLSKey      string `mapstructure:"tls-key"`
	AllowOrigin string `mapstructure:"allow-origin"`
	Backend     string `mapstructure:"backend"`
	DBConnect   string `mapstructure:"db-connect"`
	TimeoutSecs int    `mapstructure:"timeout"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Listen addresses ---
	if input.Addr == "" {
		input.Addr = DefaultListenAddr
	}
	cfg.ListenAddr = input.Addr
	cfg.TLSAddr = input.TLSAddr

	// --- 2. TLS material ---
	if input.TLSAddr != "" && (input.TLSCert == "" || input.TLSKey == "") {
		return fmt.Errorf("tls-addr requires both tls-cert and tls-key")
	}
	cfg.TLSCert = input.TLSCert
	cfg.TLSKey = input.TLSKey

	// --- 3. Backend validation ---
	backend := DatabaseBackend(input.Backend)
	switch backend {
	case SQLiteBackend, MySQLBackend, PostgreSQLBackend:
		cfg.Backend = backend
	default:
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgres", input.Backend)
	}
	if backend != SQLiteBackend && input.DBConnect == "" {
		return fmt.Errorf("db-connect is required for the %s backend", backend)
	}
	cfg.DBConnect = input.DBConnect

	// --- 4. Timeout validation ---
	if input.TimeoutSecs <= 0 {
		input.TimeoutSecs = DefaultRequestTimeout
	}
	cfg.RequestTimeout = time.Duration(input.TimeoutSecs) * time.Second

	cfg.AllowOrigin = input.AllowOrigin
	return nil
}
