package codesync

import "github.com/rs/zerolog"

// Logger is a minimal logging interface accepted by the SDK.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// noopLogger discards all logs.
type noopLogger struct{}

func (noopLogger) Debug(string, map[string]any) {}
func (noopLogger) Info(string, map[string]any)  {}
func (noopLogger) Warn(string, map[string]any)  {}
func (noopLogger) Error(string, map[string]any) {}

// ZerologLogger adapts a zerolog.Logger to Logger.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger wraps zl. Fields are attached as structured context.
func NewZerologLogger(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{zl: zl}
}

func (l *ZerologLogger) Debug(msg string, fields map[string]any) { l.zl.Debug().Fields(fields).Msg(msg) }
func (l *ZerologLogger) Info(msg string, fields map[string]any)  { l.zl.Info().Fields(fields).Msg(msg) }
func (l *ZerologLogger) Warn(msg string, fields map[string]any)  { l.zl.Warn().Fields(fields).Msg(msg) }
func (l *ZerologLogger) Error(msg string, fields map[string]any) { l.zl.Error().Fields(fields).Msg(msg) }
