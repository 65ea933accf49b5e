package logger

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalLogger *zap.Logger
	clientLevel  string
)

// Config 日志配置
type Config struct {
	Level          string `yaml:"level"`           // debug, info, warn, error
	Output         string `yaml:"output"`          // stdout, file, both
	FilePath       string `yaml:"file_path"`       // 日志文件路径
	Format         string `yaml:"format"`          // json, console
	EnableSampling bool   `yaml:"enable_sampling"` // 是否启用采样
	MaxSize        int    `yaml:"max_size"`        // 日志文件最大大小(MB)
	MaxAge         int    `yaml:"max_age"`         // 日志文件最大保留天数
	MaxBackups     int    `yaml:"max_backups"`     // 日志文件最大备份数
	ClientLevel    string `yaml:"client_level"`    // kafka客户端内部日志级别: none, error, warn, info, debug
}

// Init 初始化日志
func Init(cfg Config) error {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	sinks, err := newSinks(cfg)
	if err != nil {
		return err
	}

	encoder := newEncoder(cfg.Format)
	cores := make([]zapcore.Core, 0, len(sinks))
	for _, sink := range sinks {
		cores = append(cores, zapcore.NewCore(encoder, sink, level))
	}

	core := zapcore.NewTee(cores...)
	if cfg.EnableSampling {
		// 每秒前100条全部记录，之后每1000条记录1条
		core = zapcore.NewSamplerWithOptions(core, time.Second, 100, 1000)
	}

	globalLogger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	clientLevel = cfg.ClientLevel

	return nil
}

// newEncoder json格式用生产配置，其余用开发配置（console）
func newEncoder(format string) zapcore.Encoder {
	if format == "json" {
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(ec)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

// newSinks 按output返回输出目标，文件输出经lumberjack滚动
func newSinks(cfg Config) ([]zapcore.WriteSyncer, error) {
	var toStdout, toFile bool
	switch cfg.Output {
	case "", "stdout":
		toStdout = true
	case "file":
		toFile = true
	case "both":
		toStdout, toFile = true, true
	default:
		return nil, fmt.Errorf("unknown log.output %q", cfg.Output)
	}

	var sinks []zapcore.WriteSyncer
	if toStdout {
		sinks = append(sinks, zapcore.AddSync(os.Stdout))
	}
	if toFile {
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("log.file_path is required when output is %q", cfg.Output)
		}
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxAge:     cfg.MaxAge,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}))
	}
	return sinks, nil
}

// Replace 替换全局logger，返回恢复函数（测试中使用zaptest/observer）
func Replace(l *zap.Logger) func() {
	prev := globalLogger
	globalLogger = l
	return func() { globalLogger = prev }
}

// Get 获取全局logger
func Get() *zap.Logger {
	if globalLogger == nil {
		// 如果未初始化，使用默认配置
		globalLogger, _ = zap.NewProduction()
	}
	return globalLogger
}

// Sync 同步日志
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// With 创建带字段的logger
func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// Debug 调试日志
func Debug(msg string, fields ...zap.Field) {
	Get().Debug(msg, fields...)
}

// Info 信息日志
func Info(msg string, fields ...zap.Field) {
	Get().Info(msg, fields...)
}

// Warn 警告日志
func Warn(msg string, fields ...zap.Field) {
	Get().Warn(msg, fields...)
}

// Error 错误日志
func Error(msg string, fields ...zap.Field) {
	Get().Error(msg, fields...)
}

// Fatal 致命错误日志
func Fatal(msg string, fields ...zap.Field) {
	Get().Fatal(msg, fields...)
}
