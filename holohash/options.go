package holohash

import (
	"github.com/rs/zerolog"

	"holohash.dev/holohash/compliance"
)

// Options controls identifier construction.
//
// The zero value is strict and silent.
type Options struct {
	Mode compliance.ComplianceMode

	// Logger receives debug events for each construction step. Nil disables
	// logging.
	Logger *zerolog.Logger
}

var nopLogger = zerolog.Nop()

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = &nopLogger
	}
	return o
}

func (o Options) strict() bool {
	return o.Mode == compliance.Strict
}

// Lenient returns options that skip checksum verification and accept
// full-length text without the leading "u".
func Lenient() Options {
	return Options{Mode: compliance.Permissive}
}
