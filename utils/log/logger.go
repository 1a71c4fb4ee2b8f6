package log

import (
	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
)

var Logger *zap.Logger

func DefaultLogger() {
	var allCore []zapcore.Core

	// Console output at every level goes to standard out.
	consoleDebugging := zapcore.Lock(os.Stdout)

	// for human operators.
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(cfg)
	// console
	allCore = append(allCore, zapcore.NewCore(consoleEncoder, consoleDebugging, zapcore.DebugLevel))
	core := zapcore.NewTee(allCore...)

	// From a zapcore.Core, it's easy to construct a Logger.
	Logger = zap.New(core).WithOptions(zap.AddCaller(), zap.AddCallerSkip(1))
	zap.ReplaceGlobals(Logger)
}

func InitLogger(fileName string, maxSize, maxBackups, maxAge int, compress bool) {
	var allCore []zapcore.Core

	infoLum := lumberjack.Logger{
		Filename:   fileName + ".info.log",
		MaxSize:    maxSize, // megabytes
		MaxBackups: maxBackups,
		MaxAge:     maxAge,   //days
		Compress:   compress, // disabled by default
	}

	infoFileWriter := zapcore.AddSync(&infoLum)

	errorLum := lumberjack.Logger{
		Filename:   fileName + ".error.log",
		MaxSize:    maxSize, // megabytes
		MaxBackups: maxBackups,
		MaxAge:     maxAge,   //days
		Compress:   compress, // disabled by default
	}

	errorFileWriter := zapcore.AddSync(&errorLum)

	// Console output at every level goes to standard out.
	consoleDebugging := zapcore.Lock(os.Stdout)

	// for human operators.
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(cfg)
	// console
	allCore = append(allCore, zapcore.NewCore(consoleEncoder, consoleDebugging, zapcore.DebugLevel))
	// error
	allCore = append(allCore, zapcore.NewCore(consoleEncoder, errorFileWriter, zapcore.ErrorLevel))
	// info
	allCore = append(allCore, zapcore.NewCore(consoleEncoder, infoFileWriter, zapcore.InfoLevel))
	core := zapcore.NewTee(allCore...)

	// From a zapcore.Core, it's easy to construct a Logger.
	Logger = zap.New(core).WithOptions(zap.AddCaller(), zap.AddCallerSkip(1))
	zap.ReplaceGlobals(Logger)
}

// Sync flushes any buffered log entries. Callers should defer this after
// InitLogger so a process exit doesn't drop the last few lines written
// to a lumberjack-backed file core.
func Sync() error {
	if Logger == nil {
		return nil
	}
	return Logger.Sync()
}
