// Package config loads the engine's process configuration from the
// environment. All values are static for the process lifetime; validation
// failures are fatal at startup so the engine never runs partially
// configured.
package config

import (
	"time"

	"github.com/aptosflow/engine/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every engine environment variable
// (e.g. APTOSFLOW_PRIVATE_KEY).
const envPrefix = "aptosflow"

// Config is the engine's full process configuration.
type Config struct {
	// PrivateKey is the executor account's Ed25519 private key (hex).
	PrivateKey string `envconfig:"PRIVATE_KEY" validate:"required"`

	// ModuleAddress is the deployment address of the workflow Move module.
	ModuleAddress string `envconfig:"MODULE_ADDRESS" validate:"required"`

	// MonitoredAddresses are the accounts whose transaction history is
	// polled for trigger candidates.
	MonitoredAddresses []string `envconfig:"MONITORED_ADDRESSES" validate:"required,min=1,dive,required"`

	// MagicTriggerAmount is the exact transfer amount (octas) that denotes
	// an automation trigger. Default: 1234500 (0.012345 APT).
	MagicTriggerAmount uint64 `envconfig:"MAGIC_TRIGGER_AMOUNT" default:"1234500" validate:"gt=0"`

	// ResponseAmount is the amount (octas) sent back per trigger.
	// Default: 100000 (0.001 APT).
	ResponseAmount uint64 `envconfig:"RESPONSE_AMOUNT" default:"100000" validate:"gt=0"`

	// PollInterval is the chain scan interval.
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"10s" validate:"gt=0"`

	// WindowSize is how many recent transactions each scan fetches per
	// monitored address.
	WindowSize uint64 `envconfig:"WINDOW_SIZE" default:"25" validate:"gt=0"`

	// NodeURL overrides the Aptos fullnode endpoint. Empty selects the
	// public testnet fullnode.
	NodeURL string `envconfig:"NODE_URL"`

	// ListenAddr is the webhook/health HTTP listen address.
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":3000"`

	// PromptParserURL is the endpoint of the external prompt-to-workflow
	// parsing service. Empty disables the parse command.
	PromptParserURL string `envconfig:"PROMPT_PARSER_URL"`

	// Redis connection settings. An empty RedisAddr keeps trigger
	// admissions in process memory.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// LedgerTTL bounds how long Redis retains trigger admissions. Zero
	// applies the storage default; negative keeps admissions forever.
	LedgerTTL time.Duration `envconfig:"LEDGER_TTL"`

	// LowBalanceThreshold (octas) triggers the startup low-balance warning.
	LowBalanceThreshold uint64 `envconfig:"LOW_BALANCE_THRESHOLD" default:"1000000"`

	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`
}

// Load reads and validates the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
