package bootstrap

import (
	"context"
	"io"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"ui-probe/internal/config"
)

func newLogger(lc fx.Lifecycle, config *config.Config) (*zap.Logger, error) {
	logger, file, err := buildLogger(config.AppConfig)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()

			if file != nil {
				return file.Close()
			}

			return nil
		},
	})

	return logger, nil
}

// buildLogger returns the console logger, teed into a rotating JSON file when
// LOG_FILE is set. The returned closer is nil without a file.
func buildLogger(app *config.AppConfig) (*zap.Logger, io.Closer, error) {
	var zapConfig zap.Config

	if app.Debug {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	zapConfig.DisableStacktrace = true

	switch app.LogLevel {
	case "debug":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	var (
		options []zap.Option
		file    *lumberjack.Logger
	)

	if app.LogFile != "" {
		file = &lumberjack.Logger{
			Filename:   app.LogFile,
			MaxSize:    app.LogMaxSizeMB,
			MaxBackups: app.LogMaxBackups,
			MaxAge:     app.LogMaxAgeDays,
		}

		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(file),
			zapConfig.Level,
		)

		options = append(options, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore)
		}))
	}

	logger, err := zapConfig.Build(options...)
	if err != nil {
		return nil, nil, err
	}

	if file == nil {
		return logger, nil, nil
	}

	return logger, file, nil
}
