// Package logger constructs the single *zap.SugaredLogger every
// component of an ignite log shares, tagging every entry with the
// owning service name so multiple logs opened in the same process
// remain distinguishable in aggregated log output.
package logger

import "go.uber.org/zap"

// New builds a production zap logger and returns it wrapped as a
// SugaredLogger carrying a "service" field set to service. Falling back
// to zap's NewExample on construction failure would hide misconfigured
// sinks, so a failure here is fatal: logging setup is assumed to always
// succeed in the environments ignite targets.
func New(service string) *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("logger: failed to initialize zap: " + err.Error())
	}
	return logger.Sugar().With("service", service)
}
