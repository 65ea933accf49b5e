package logger

import (
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// kgoLogger 将franz-go客户端日志转发到zap
type kgoLogger struct {
	level kgo.LogLevel
}

// KgoLogger 返回供kgo.WithLogger使用的日志适配器，级别取自Config.ClientLevel
func KgoLogger() kgo.Logger {
	return &kgoLogger{level: parseClientLevel(clientLevel)}
}

func (l *kgoLogger) Level() kgo.LogLevel {
	return l.level
}

func (l *kgoLogger) Log(level kgo.LogLevel, msg string, keyvals ...any) {
	fields := make([]zap.Field, 0, len(keyvals)/2+1)
	fields = append(fields, zap.String("component", "kgo"))
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keyvals[i+1]))
	}

	switch level {
	case kgo.LogLevelError:
		Get().Error(msg, fields...)
	case kgo.LogLevelWarn:
		Get().Warn(msg, fields...)
	case kgo.LogLevelInfo:
		Get().Info(msg, fields...)
	case kgo.LogLevelDebug:
		Get().Debug(msg, fields...)
	}
}

// parseClientLevel 解析客户端日志级别，默认warn
func parseClientLevel(level string) kgo.LogLevel {
	switch strings.ToLower(level) {
	case "none":
		return kgo.LogLevelNone
	case "error":
		return kgo.LogLevelError
	case "info":
		return kgo.LogLevelInfo
	case "debug":
		return kgo.LogLevelDebug
	default:
		return kgo.LogLevelWarn
	}
}
