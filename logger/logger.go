package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewProductionLogger builds a JSON logger. The level defaults to debug and can be
// overridden with LOG_LEVEL, which the CLI sets from its --log-level flag.
func NewProductionLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	if lvl, ok := os.LookupEnv("LOG_LEVEL"); ok && lvl != "" {
		level, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, err
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}
	return config.Build()
}

func Suggar(logger *zap.Logger) *zap.SugaredLogger {
	return logger.Sugar()
}
