package config

import (
	"github.com/tokenmint/tokenmint/internal/logger"
)

// Defaults applied by validate when main.toml leaves mint settings unset.
const (
	defaultMintLength    = 32
	defaultMintMaxLength = 1024
	defaultMintMaxCount  = 100
	defaultOTPSecretSize = 20
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Mint      Mint
}

// Webserver implement webserver settings.
type Webserver struct {
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string // base url for the webserver
	APIKeyHash   string // argon2id hash that X-API-Key values must match
}

// Mint holds the limits and defaults for minted secrets.
type Mint struct {
	DefaultLength   int      // secret length used when a request names none
	MaxLength       int      // upper bound on requested secret length
	MaxCount        int      // upper bound on batch size for ephemeral strings
	DefaultTTL      int      // token lifetime in seconds, 0 keeps tokens forever
	DefaultAlphabet []string // alphabet tags used when a request names none
	OTPIssuer       string   // issuer stamped into TOTP enrollment keys
	OTPSecretSize   int      // random bytes behind each TOTP secret
}
