// Package log provides the narrow structured-logging surface used by the
// orchestrator. It is a thin wrapper over go.uber.org/zap
// rather than a hand-rolled logger, matching the teacher's own convention of
// wrapping zap behind a small interface.
package log

import "go.uber.org/zap"

// Logger is the subset of zap's API this module actually calls. Pure
// cryptographic/codec packages and the Safrole STF never log; only the
// orchestrator takes a Logger, so events (announcements, ticket
// generation, epoch transitions, failed Safrole transitions) have
// somewhere to go without coupling every package to zap.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

type zapLogger struct {
	z *zap.Logger
}

func (l zapLogger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l zapLogger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l zapLogger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l zapLogger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }

// NewProduction returns a Logger backed by zap's production JSON encoder.
func NewProduction() (Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return zapLogger{z: z}, nil
}

// NewNop returns a Logger that discards everything, for pure unit tests and
// for callers that have no logging sink configured.
func NewNop() Logger {
	return zapLogger{z: zap.NewNop()}
}
