package logging

import (
	"io"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogFileMaxSizeMB is the size a log file may grow to before it is rotated.
const DefaultLogFileMaxSizeMB = 64

// NewFileCore returns a core writing JSON entries to the file at path, rotating it once it
// grows past maxSizeMB. The returned closer closes the current file.
func NewFileCore(path string, maxSizeMB int) (zapcore.Core, io.Closer) {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultLogFileMaxSizeMB
	}
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 2,
		Compress:   true,
	}
	encoderCfg := NewLoggerConfig().EncoderConfig
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeTime = utcTimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(sink), zapcore.DebugLevel), sink
}

// NewTeeLogger returns a logger at the given level writing to every core.
func NewTeeLogger(name string, level Level, cores ...zapcore.Core) Logger {
	return newImpl(name, level, zapcore.NewTee(cores...))
}
