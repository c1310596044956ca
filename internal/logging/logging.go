// Package logging configures the process-wide zap logger.
package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogMaxSize = 100 // MB

// ErrLogFileIsDir is returned when the log file path names a directory.
var ErrLogFileIsDir = errors.New("can't use directory as log file name")

// FileConfig is the rotated file sink. An empty Filename disables it.
type FileConfig struct {
	RootPath   string `mapstructure:"rootpath" json:"rootpath"`
	Filename   string `mapstructure:"filename" json:"filename"`
	MaxSize    int    `mapstructure:"max-size" json:"max-size"`
	MaxDays    int    `mapstructure:"max-days" json:"max-days"`
	MaxBackups int    `mapstructure:"max-backups" json:"max-backups"`
}

// Config selects level, encoding and sinks.
type Config struct {
	// Level is a zap level name; "trace" is accepted as debug.
	Level string `mapstructure:"level" json:"level"`
	// Format is "console" or "json".
	Format string     `mapstructure:"format" json:"format"`
	Stdout bool       `mapstructure:"stdout" json:"stdout"`
	File   FileConfig `mapstructure:"file" json:"file"`
}

var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(zap.NewNop())
}

// L returns the global logger.
func L() *zap.Logger {
	return global.Load()
}

// Init builds a logger from cfg and installs it as the global one. Messages
// go to stderr unless Stdout or a file sink is configured.
func Init(cfg *Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel

	parsed := cfg.Level
	if strings.EqualFold(parsed, "trace") {
		parsed = "debug"
	}

	if parsed != "" {
		if err := level.UnmarshalText([]byte(parsed)); err != nil {
			return nil, errors.Wrapf(err, "log level %q", cfg.Level)
		}
	}

	var outputs []zapcore.WriteSyncer

	if cfg.File.Filename != "" {
		lg, err := initFileLog(&cfg.File)
		if err != nil {
			return nil, err
		}

		outputs = append(outputs, zapcore.AddSync(lg))
	}

	if cfg.Stdout {
		outputs = append(outputs, zapcore.Lock(os.Stdout))
	}

	if len(outputs) == 0 {
		outputs = append(outputs, zapcore.Lock(os.Stderr))
	}

	core := zapcore.NewCore(encoder(cfg.Format), zap.CombineWriteSyncers(outputs...), level)
	lg := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	global.Store(lg)

	return lg, nil
}

// Replace installs lg as the global logger, e.g. a zaptest logger.
func Replace(lg *zap.Logger) {
	global.Store(lg)
}

func encoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	if strings.EqualFold(format, "json") {
		return zapcore.NewJSONEncoder(ec)
	}

	ec.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapcore.NewConsoleEncoder(ec)
}

// initFileLog opens the rotated log file.
func initFileLog(cfg *FileConfig) (*lumberjack.Logger, error) {
	logPath := filepath.Join(cfg.RootPath, cfg.Filename)
	if st, err := os.Stat(logPath); err == nil && st.IsDir() {
		return nil, errors.Wrapf(ErrLogFileIsDir, "%s", logPath)
	}

	if cfg.MaxSize == 0 {
		cfg.MaxSize = defaultLogMaxSize
	}

	return &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxDays,
		LocalTime:  true,
	}, nil
}
