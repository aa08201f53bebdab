package logger

import (
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerConfig struct {
	Debug bool
}

// NewLogger creates a console zap logger writing to stderr
func NewLogger(cfg *LoggerConfig) (*zap.Logger, error) {
	if cfg == nil {
		cfg = &LoggerConfig{}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    coloredLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)

	return zap.New(core), nil
}

func coloredLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var levelColor *color.Color
	var levelText string

	switch l {
	case zapcore.DebugLevel:
		levelColor = color.New(color.FgWhite)
		levelText = "DEBUG"
	case zapcore.InfoLevel:
		levelColor = color.New(color.FgBlue)
		levelText = "INFO"
	case zapcore.WarnLevel:
		levelColor = color.New(color.FgYellow)
		levelText = "WARN"
	case zapcore.ErrorLevel:
		levelColor = color.New(color.FgRed)
		levelText = "ERROR"
	case zapcore.FatalLevel:
		levelColor = color.New(color.FgRed, color.Bold)
		levelText = "FATAL"
	default:
		levelColor = color.New(color.FgWhite)
		levelText = l.String()
	}

	enc.AppendString(levelColor.Sprint(levelText))
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(color.New(color.FgWhite).Sprintf("[%s]", t.Format("15:04:05")))
}
