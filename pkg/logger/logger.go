package logger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Entry запись лога, уходящая во внешний приемник
type Entry struct {
	Timestamp time.Time
	Level     Level
	Logger    string
	Message   string
	Fields    map[string]interface{}
}

// Publisher внешний приемник записей (например, CloudWatch Logs)
type Publisher interface {
	Publish(ctx context.Context, entry Entry) error
}

// sink общий для логгера и всех его потомков
type sink struct {
	mu        sync.RWMutex
	publisher Publisher
}

type Logger struct {
	zap   *zap.Logger
	level Level
	name  string
	sink  *sink
}

func New(level string) *Logger {
	return NewWithFormat(level, "console")
}

// NewWithFormat создает логгер с кодировщиком json или console
func NewWithFormat(level, format string) *Logger {
	return build(level, format, "stdout")
}

// NewStderr пишет в stderr, чтобы не смешивать логи с выводом CLI
func NewStderr(level string) *Logger {
	return build(level, "console", "stderr")
}

func build(level, format, output string) *Logger {
	lvl := parseLevel(level)

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(toZapLevel(lvl))
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	if strings.EqualFold(format, "json") {
		cfg.Encoding = "json"
	} else {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}

	return &Logger{
		zap:   z,
		level: lvl,
		sink:  &sink{},
	}
}

// Nop логгер, который ничего не пишет
func Nop() *Logger {
	return &Logger{zap: zap.NewNop(), level: ERROR, sink: &sink{}}
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func toZapLevel(l Level) zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Named возвращает дочерний логгер с именем модуля
func (l *Logger) Named(name string) *Logger {
	child := *l
	child.zap = l.zap.Named(name)
	if l.name != "" {
		child.name = l.name + "." + name
	} else {
		child.name = name
	}
	return &child
}

// With возвращает дочерний логгер с постоянными полями
func (l *Logger) With(args ...interface{}) *Logger {
	child := *l
	child.zap = l.zap.With(toFields(args)...)
	return &child
}

// SetPublisher подключает внешний приемник, nil отключает
func (l *Logger) SetPublisher(p Publisher) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.publisher = p
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.level <= DEBUG {
		l.zap.Debug(msg, toFields(args)...)
		l.publish(DEBUG, msg, args)
	}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.level <= INFO {
		l.zap.Info(msg, toFields(args)...)
		l.publish(INFO, msg, args)
	}
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.level <= WARN {
		l.zap.Warn(msg, toFields(args)...)
		l.publish(WARN, msg, args)
	}
}

func (l *Logger) Error(msg string, err error, args ...interface{}) {
	if l.level <= ERROR {
		if err != nil {
			args = append(args, "error", err.Error())
		}
		l.zap.Error(msg, toFields(args)...)
		l.publish(ERROR, msg, args)
	}
}

// Sync сбрасывает буферы zap
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

func (l *Logger) publish(level Level, msg string, args []interface{}) {
	l.sink.mu.RLock()
	p := l.sink.publisher
	l.sink.mu.RUnlock()
	if p == nil {
		return
	}

	fields := make(map[string]interface{}, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		fields[fmt.Sprint(args[i])] = args[i+1]
	}

	// ошибки приемника не должны ломать логирование
	_ = p.Publish(context.Background(), Entry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Logger:    l.name,
		Message:   msg,
		Fields:    fields,
	})
}

func toFields(args []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		fields = append(fields, zap.Any(fmt.Sprint(args[i]), args[i+1]))
	}
	return fields
}
