package logger

import (
	"log"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Info  = log.New(os.Stdout, color.GreenString("[INFO] "), log.LstdFlags|log.Lmsgprefix)
	Warn  = log.New(os.Stdout, color.YellowString("[WARN] "), log.LstdFlags|log.Lmsgprefix)
	Error = log.New(os.Stderr, color.RedString("[ERROR] "), log.LstdFlags|log.Lmsgprefix)
	Debug = log.New(os.Stdout, color.CyanString("[DEBUG] "), log.LstdFlags|log.Lmsgprefix)
)

// Zap builds the logger handed to the gotd client. MTProto internals are
// chatty at debug level, so it stays at Warn unless verbose is set.
func Zap(verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
