package config

import (
	"time"

	"github.com/jobly/jobly-api/log"
)

type Config interface {
	// SecretKey signs and validates the authentication tokens
	SecretKey() string
	// TokenTTL is the lifetime of issued tokens, zero for tokens that never expire
	TokenTTL() time.Duration
	Naming() NamingConventionFn
	Logger() log.Logger
}
