package utils

import (
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger.go - настройка логирования
//
// Структурированное логирование на zap:
// - формат json (production) или text (console encoder)
// - уровни debug, info, warn, error, fatal
// - вывод в stderr, stdout или файл (при ошибке открытия файла - stderr)
// - глобальный логгер для пакетов, которым логгер не передаётся явно

// LogConfig - параметры логгера
type LogConfig struct {
	Level       string // debug, info, warn, error, fatal (default: info)
	Format      string // json, text (default: json)
	Output      string // stderr, stdout или путь к файлу (default: stderr)
	Development bool   // stacktrace на warn, caller в выводе
}

// Logger оборачивает zap.Logger и хранит sugared-версию для printf-логов
type Logger struct {
	*zap.Logger
	sugar *zap.SugaredLogger
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// InitLogger создаёт логгер по конфигурации
func InitLogger(cfg LogConfig) *Logger {
	level := parseLevel(cfg.Level)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	var encoder zapcore.Encoder
	if strings.ToLower(cfg.Format) == "text" {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, openOutput(cfg.Output), zap.NewAtomicLevelAt(level))

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Development {
		opts = []zap.Option{zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.WarnLevel)}
	}

	return FromZap(zap.New(core, opts...))
}

// FromZap оборачивает готовый zap.Logger (например, zaptest или observer)
func FromZap(zl *zap.Logger) *Logger {
	if zl == nil {
		zl = zap.NewNop()
	}
	return &Logger{
		Logger: zl,
		sugar:  zl.Sugar(),
	}
}

// NewNop - логгер, который ничего не пишет
func NewNop() *Logger {
	return FromZap(zap.NewNop())
}

// openOutput открывает приёмник логов
func openOutput(output string) zapcore.WriteSyncer {
	switch strings.ToLower(output) {
	case "", "stderr":
		return zapcore.Lock(os.Stderr)
	case "stdout":
		return zapcore.Lock(os.Stdout)
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(f)
}

// parseLevel переводит строку в уровень zap; неизвестное значение = info
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// ============================================================
// Глобальный логгер
// ============================================================

// InitGlobalLogger создаёт логгер и делает его глобальным
func InitGlobalLogger(cfg LogConfig) *Logger {
	logger := InitLogger(cfg)
	SetGlobalLogger(logger)
	return logger
}

// SetGlobalLogger заменяет глобальный логгер
func SetGlobalLogger(logger *Logger) {
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

// GetGlobalLogger возвращает глобальный логгер, создавая его при первом обращении
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	logger := globalLogger
	globalMu.RUnlock()
	if logger != nil {
		return logger
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = InitLogger(LogConfig{})
	}
	return globalLogger
}

// L - короткий алиас GetGlobalLogger
func L() *Logger {
	return GetGlobalLogger()
}

// ============================================================
// Методы Logger
// ============================================================

// With возвращает дочерний логгер с дополнительными полями
func (l *Logger) With(fields ...zap.Field) *Logger {
	child := l.Logger.With(fields...)
	return &Logger{
		Logger: child,
		sugar:  child.Sugar(),
	}
}

// WithComponent помечает логи именем компонента
func (l *Logger) WithComponent(name string) *Logger {
	return l.With(Component(name))
}

// WithExchange помечает логи именем биржи
func (l *Logger) WithExchange(name string) *Logger {
	return l.With(Exchange(name))
}

// WithPage помечает логи номером страницы истории
func (l *Logger) WithPage(page int) *Logger {
	return l.With(Page(page))
}

// Sugar возвращает sugared логгер для printf-стиля
func (l *Logger) Sugar() *zap.SugaredLogger {
	return l.sugar
}

// ============================================================
// Глобальные функции логирования
// ============================================================

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field) { L().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field) { L().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

func Debugf(template string, args ...interface{}) { L().sugar.Debugf(template, args...) }
func Infof(template string, args ...interface{}) { L().sugar.Infof(template, args...) }
func Warnf(template string, args ...interface{}) { L().sugar.Warnf(template, args...) }
func Errorf(template string, args ...interface{}) { L().sugar.Errorf(template, args...) }

// ============================================================
// Конструкторы полей предметной области
// ============================================================

func Exchange(name string) zap.Field { return zap.String("exchange", name) }
func Page(page int) zap.Field { return zap.Int("page", page) }
func OrderID(id int64) zap.Field { return zap.Int64("order_id", id) }
func OrdersCount(n int) zap.Field { return zap.Int("orders", n) }
func Status(status string) zap.Field { return zap.String("status", status) }
func Side(side string) zap.Field { return zap.String("side", side) }
func RequestID(id string) zap.Field { return zap.String("request_id", id) }
func Component(name string) zap.Field { return zap.String("component", name) }
func Attempt(n int) zap.Field { return zap.Int("attempt", n) }
func URL(u string) zap.Field { return zap.String("url", u) }
func Latency(d time.Duration) zap.Field { return zap.Float64("latency_ms", float64(d.Microseconds())/1000) }

// Переэкспорт стандартных конструкторов zap

// Field - поле структурированного лога
type Field = zap.Field

func String(key, val string) zap.Field { return zap.String(key, val) }
func Int(key string, val int) zap.Field { return zap.Int(key, val) }
func Int64(key string, val int64) zap.Field { return zap.Int64(key, val) }
func Float64(key string, val float64) zap.Field { return zap.Float64(key, val) }
func Bool(key string, val bool) zap.Field { return zap.Bool(key, val) }
func Duration(key string, val time.Duration) zap.Field { return zap.Duration(key, val) }
func Err(err error) zap.Field { return zap.Error(err) }
func Any(key string, val interface{}) zap.Field { return zap.Any(key, val) }
