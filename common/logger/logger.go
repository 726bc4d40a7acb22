package logger

import (
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel int

const (
	ERROR LogLevel = iota
	WARN
	INFO
	DEBUG
	TRACE
)

var (
	base  = zap.NewNop()
	Info  = log.New(io.Discard, "", 0)
	Warn  = log.New(io.Discard, "", 0)
	Error = log.New(io.Discard, "", 0)
	Debug = log.New(io.Discard, "", 0)
	Trace = log.New(io.Discard, "", 0)
)

func StringToLogLevel(value string) LogLevel {
	switch strings.ToLower(value) {
	case "error":
		return ERROR
	case "warn":
		return WARN
	case "info":
		return INFO
	case "debug":
		return DEBUG
	case "trace":
		return TRACE
	}
	log.Printf("Invalid log level: '%s'. Returning INFO", value)
	return INFO
}

func (s LogLevel) String() string {
	switch s {
	case ERROR:
		return "ERROR"
	case WARN:
		return "WARN"
	case INFO:
		return "INFO"
	case DEBUG:
		return "DEBUG"
	case TRACE:
		return "TRACE"
	}
	return "UNKNOWN"
}

func (s LogLevel) zapLevel() zapcore.Level {
	switch s {
	case ERROR:
		return zapcore.ErrorLevel
	case WARN:
		return zapcore.WarnLevel
	case INFO:
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

func Initialize(logLevel LogLevel) {
	InitializeWithWriter(logLevel, os.Stdout)
}

// InitializeWithWriter points every level logger to the given writer.
// Trace is written at zap's debug level under the "trace" name.
func InitializeWithWriter(logLevel LogLevel, writer io.Writer) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(writer)),
		zap.NewAtomicLevelAt(logLevel.zapLevel()),
	)
	base = zap.New(core, zap.AddCaller())

	Error = stdLogAt(base, zapcore.ErrorLevel)
	Warn = stdLogAt(base, zapcore.WarnLevel)
	Info = stdLogAt(base, zapcore.InfoLevel)
	Debug = stdLogAt(base, zapcore.DebugLevel)
	if logLevel >= TRACE {
		Trace = stdLogAt(base.Named("trace"), zapcore.DebugLevel)
	} else {
		Trace = log.New(io.Discard, "", 0)
	}

	Info.Printf("Initialized loggers: '%s'", logLevel.String())
}

func stdLogAt(logger *zap.Logger, level zapcore.Level) *log.Logger {
	stdLogger, err := zap.NewStdLogAt(logger, level)
	if err != nil {
		log.Printf("Could not create %s logger: %s", level, err)
		return log.New(io.Discard, "", 0)
	}
	return stdLogger
}

func Sync() {
	_ = base.Sync()
}
