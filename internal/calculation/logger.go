package calculation

import "github.com/rs/zerolog"

// Logger is a minimal logging interface for the calculation engine.
// Implementations should be fast; the default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// ZerologLogger adapts a zerolog.Logger to the engine's Logger interface.
type ZerologLogger struct {
	L zerolog.Logger
}

// NewZerologLogger wraps a zerolog.Logger for use by the engine.
func NewZerologLogger(l zerolog.Logger) ZerologLogger { return ZerologLogger{L: l} }

func (z ZerologLogger) Debugf(format string, args ...any) { z.L.Debug().Msgf(format, args...) }
func (z ZerologLogger) Infof(format string, args ...any)  { z.L.Info().Msgf(format, args...) }
func (z ZerologLogger) Warnf(format string, args ...any)  { z.L.Warn().Msgf(format, args...) }
func (z ZerologLogger) Errorf(format string, args ...any) { z.L.Error().Msgf(format, args...) }
