// Package logger builds zerolog loggers for the CLI and adapts them to
// outreach.Logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
)

const (
	colorRed     = 31
	colorGreen   = 32
	colorYellow  = 33
	colorMagenta = 35

	colorBold = 1
)

func colorize(s interface{}, c int) string {
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}

// New creates a logger writing to stderr based on the ENV environment variable.
func New(level zerolog.Level) zerolog.Logger {
	env := os.Getenv(constants.EnvRuntime)

	if env == "development" || env == "dev" || env == "" {
		return NewDevelopment(os.Stderr).Level(level)
	}

	return NewProduction(os.Stderr).Level(level)
}

// NewDevelopment creates a development logger with console output and colors.
func NewDevelopment(out io.Writer) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:         out,
		TimeFormat:  constants.TimeDisplayFormat,
		FormatLevel: formatLevel,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// NewProduction creates a production logger with JSON output and UNIX timestamps.
func NewProduction(out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	return zerolog.New(out).With().Timestamp().Logger()
}

func formatLevel(i interface{}) string {
	ll, ok := i.(string)
	if !ok {
		return strings.ToUpper(fmt.Sprintf("%s", i))
	}

	switch ll {
	case "trace":
		return colorize("TRC", colorMagenta)
	case "debug":
		return colorize("DBG", colorYellow)
	case "info":
		return colorize("INF", colorGreen)
	case "warn":
		return colorize("WRN", colorRed)
	case "error":
		return colorize("ERR", colorRed)
	case "fatal":
		return colorize("FTL", colorRed)
	case "panic":
		return colorize("PNC", colorRed)
	default:
		if len(ll) > 3 {
			ll = ll[:3]
		}

		return colorize(strings.ToUpper(ll), colorBold)
	}
}

// Adapter adapts a zerolog.Logger to outreach.Logger.
type Adapter struct {
	logger zerolog.Logger
}

// NewAdapter wraps logger.
func NewAdapter(logger zerolog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// Debug logs at debug level.
func (a *Adapter) Debug(msg string, fields map[string]interface{}) {
	a.logger.Debug().Fields(fields).Msg(msg)
}

// Info logs at info level.
func (a *Adapter) Info(msg string, fields map[string]interface{}) {
	a.logger.Info().Fields(fields).Msg(msg)
}

// Warn logs at warn level.
func (a *Adapter) Warn(msg string, fields map[string]interface{}) {
	a.logger.Warn().Fields(fields).Msg(msg)
}

// Error logs at error level.
func (a *Adapter) Error(msg string, fields map[string]interface{}) {
	a.logger.Error().Fields(fields).Msg(msg)
}
