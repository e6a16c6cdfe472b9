// SPDX-License-Identifier: MIT

package validate

import (
	"strings"

	"github.com/rs/zerolog"
)

// ErrInvalidLogLevel rejects anything outside trace, debug, info, warn and error.
var ErrInvalidLogLevel = Error{
	Field:   "log.level",
	Message: "invalid log level (must be: trace, debug, info, warn, error)",
}

// ParseLogLevel maps a configured level name onto zerolog.
func ParseLogLevel(s string) (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, ErrInvalidLogLevel
	}
	switch lvl {
	case zerolog.TraceLevel, zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel:
		return lvl, nil
	}
	return zerolog.NoLevel, ErrInvalidLogLevel
}
