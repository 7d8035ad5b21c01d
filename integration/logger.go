package integration

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a console logger; verbosity is a zap level name
// ("debug", "info", "warn", "error"), anything else means info.
func NewLogger(verbosity string) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if verbosity != "" {
		if err := level.UnmarshalText([]byte(verbosity)); err != nil {
			level = zapcore.InfoLevel
		}
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encCfg.CallerKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(os.Stdout),
		level,
	)
	return zap.New(core).Sugar()
}
