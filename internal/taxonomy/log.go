package taxonomy

import (
	"io"

	"github.com/charmbracelet/log"
)

// Log writes d to logger at the severity of its kind.
func (d Diagnostic) Log(logger *log.Logger) {
	keyvals := []any{"kind", string(d.Kind)}
	if d.Class != "" {
		keyvals = append(keyvals, "class", d.Class)
	}
	if d.Method != "" {
		keyvals = append(keyvals, "method", d.Method)
	}

	switch SeverityOf(d.Kind) {
	case SeverityDebug:
		logger.Debug(d.Message, keyvals...)
	case SeverityError:
		logger.Error(d.Message, keyvals...)
	default:
		logger.Warn(d.Message, keyvals...)
	}
}

// LoggerOrDiscard returns logger, or a logger that drops everything
// when logger is nil.
func LoggerOrDiscard(logger *log.Logger) *log.Logger {
	if logger != nil {
		return logger
	}
	return log.New(io.Discard)
}
