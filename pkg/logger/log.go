package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"repair-tracker/pkg/config"
)

// NewLogger собирает zap-логгер: console в development, JSON в production.
// Если задан LOG_FILE, записи дублируются в файл.
func NewLogger(cfg config.LogConfig, production bool) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}

	encoding := "console"
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	if production {
		encoding = "json"
		encoderConfig = zap.NewProductionEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	outputs := []string{"stdout"}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}
		outputs = append(outputs, cfg.File)
	}

	zapConfig := zap.Config{
		Encoding:         encoding,
		Level:            level,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderConfig,
	}

	return zapConfig.Build()
}
