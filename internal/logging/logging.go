// Package logging builds the zap logger used by the CLI and the HTTP server
// and adapts it to the specindex Observer.
package logging

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/itsmostafa/specindex/internal/specindex"
)

// Level names accepted by New.
const (
	LevelNone   = "none"
	LevelNormal = "normal"
	LevelDebug  = "debug"
)

// New returns a console logger writing every level to stderr, leaving stdout
// to command output. "none" returns a no-op logger.
func New(level string) (*zap.Logger, error) {
	return newLogger(level, zapcore.Lock(os.Stderr), isatty.IsTerminal(os.Stderr.Fd()))
}

func newLogger(level string, out zapcore.WriteSyncer, color bool) (*zap.Logger, error) {
	var threshold zapcore.Level
	switch level {
	case LevelNone:
		return zap.NewNop(), nil
	case LevelNormal, "":
		threshold = zapcore.InfoLevel
	case LevelDebug:
		threshold = zapcore.DebugLevel
	default:
		return nil, fmt.Errorf("unknown log level %q (want none, normal or debug)", level)
	}

	return zap.New(zapcore.NewCore(consoleEncoder(color), out, threshold)), nil
}

func consoleEncoder(color bool) zapcore.Encoder {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

// Observer forwards pipeline events to a zap logger. Dropped entries,
// unresolved headings and an empty ToC are warnings; the rest is debug output.
type Observer struct {
	log *zap.Logger
}

// NewObserver wraps log. A nil logger discards events.
func NewObserver(log *zap.Logger) *Observer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Observer{log: log}
}

// Observe logs e.
func (o *Observer) Observe(e specindex.Event) {
	fields := []zap.Field{zap.String("stage", e.Stage)}
	if e.SectionID != "" {
		fields = append(fields, zap.String("section", e.SectionID))
	}
	if e.Page > 0 {
		fields = append(fields, zap.Int("page", e.Page))
	}
	if e.Detail != "" {
		fields = append(fields, zap.String("detail", e.Detail))
	}

	switch e.Kind {
	case specindex.EventEntryDropped, specindex.EventUnresolved, specindex.EventTOCEmpty:
		o.log.Warn(string(e.Kind), fields...)
	case specindex.EventTOCFallback:
		o.log.Info(string(e.Kind), append(fields, zap.Int("entries", e.Count))...)
	case specindex.EventStageComplete:
		o.log.Debug(string(e.Kind), append(fields, zap.Int("count", e.Count), zap.Duration("elapsed", e.Duration))...)
	default:
		o.log.Debug(string(e.Kind), append(fields, zap.Int("count", e.Count))...)
	}
}
