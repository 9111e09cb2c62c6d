// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// logger.go — Logger interface and noop implementation used internally by
// the codec's debug channels, plus a ready-made zap adapter.

package kajson

import "go.uber.org/zap"

// Logger is the logging interface used internally by kajson.
// Implement this to route logs to zap, slog, logrus, etc.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	Debug(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Info(_ string, _ ...any)  {}
func (noopLogger) Warn(_ string, _ ...any)  {}
func (noopLogger) Error(_ string, _ ...any) {}
func (noopLogger) Debug(_ string, _ ...any) {}

// ZapLogger routes the codec's log channels into a zap sugared logger.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps a zap sugared logger as a kajson Logger.
func NewZapLogger(s *zap.SugaredLogger) ZapLogger {
	return ZapLogger{s: s}
}

func (l ZapLogger) Info(msg string, keysAndValues ...any)  { l.s.Infow(msg, keysAndValues...) }
func (l ZapLogger) Warn(msg string, keysAndValues ...any)  { l.s.Warnw(msg, keysAndValues...) }
func (l ZapLogger) Error(msg string, keysAndValues ...any) { l.s.Errorw(msg, keysAndValues...) }
func (l ZapLogger) Debug(msg string, keysAndValues ...any) { l.s.Debugw(msg, keysAndValues...) }
