package http

import (
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/hashicorp/go-retryablehttp"
)

// LeveledLogger adapts a rides.Logger to retryablehttp's logger.
type LeveledLogger struct {
	logger rides.Logger
}

var _ retryablehttp.LeveledLogger = (*LeveledLogger)(nil)

// NewLeveledLogger wraps logger for use by retryablehttp.
func NewLeveledLogger(logger rides.Logger) *LeveledLogger {
	return &LeveledLogger{logger: logger}
}

func (l *LeveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *LeveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *LeveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *LeveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		value := keysAndValues[i+1]

		if key == "url" {
			value = redactValue(value)
		}

		fields[key] = value
	}

	return fields
}

func redactValue(value interface{}) interface{} {
	switch v := value.(type) {
	case *url.URL:
		return redactQuery(v)
	case string:
		u, err := url.Parse(v)
		if err != nil {
			return "<unparseable url>"
		}

		return redactQuery(u)
	default:
		return value
	}
}
