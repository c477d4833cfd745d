package logger

import (
	"go.uber.org/zap"
)

// New returns a production zap logger; pass debug=true during development
// for human-readable output.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
