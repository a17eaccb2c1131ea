package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the rotating log file written under the log directory.
const FileName = "downtime-mcs.log"

// Options configures the global logger.
type Options struct {
	// Dir holds the rotating log file. Empty selects <exe dir>/logs.
	Dir string
	// Level is a zerolog level name ("debug", "warn", ...). Empty means info.
	Level string
	// Verbose forces debug level regardless of Level.
	Verbose bool
	// Console receives human-readable output. Nil means os.Stderr.
	Console io.Writer
}

// OptionsFromEnv reads LOGS_FOLDER and LOG_LEVEL. It runs before config.Load,
// so the .env next to the binary is loaded here first.
func OptionsFromEnv(verbose bool) Options {
	if exePath, err := os.Executable(); err == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}
	return Options{
		Dir:     os.Getenv("LOGS_FOLDER"),
		Level:   os.Getenv("LOG_LEVEL"),
		Verbose: verbose,
	}
}

// Init installs the global logger: console output on stderr plus a
// rotating file. Stdout stays reserved for MCP traffic and command output.
func Init(opts Options) error {
	logger, err := New(opts)
	if err != nil {
		return err
	}
	log.Logger = logger
	log.Debug().Str("level", zerolog.GlobalLevel().String()).Msg("Logging initialized")
	return nil
}

// New builds a logger for opts without touching the global one. It also
// sets the zerolog global level.
func New(opts Options) (zerolog.Logger, error) {
	level, err := parseLevel(opts)
	if err != nil {
		return zerolog.Nop(), err
	}
	zerolog.SetGlobalLevel(level)

	dir, err := logDir(opts.Dir)
	if err != nil {
		return zerolog.Nop(), err
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(console),
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(dir, FileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     365, // days
		Compress:   true,
	}

	return zerolog.New(zerolog.MultiLevelWriter(consoleWriter, fileWriter)).
		With().
		Timestamp().
		Str("app", "downtime-mcs").
		Logger(), nil
}

func parseLevel(opts Options) (zerolog.Level, error) {
	if opts.Verbose {
		return zerolog.DebugLevel, nil
	}
	if opts.Level == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid LOG_LEVEL %q: %w", opts.Level, err)
	}
	return level, nil
}

// logDir resolves and creates the log directory and checks it is writable.
func logDir(dir string) (string, error) {
	if dir == "" {
		dir = "logs"
		if exePath, err := os.Executable(); err == nil {
			dir = filepath.Join(filepath.Dir(exePath), "logs")
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return "", fmt.Errorf("log directory %q is not writable: %w", dir, err)
	}
	_ = os.Remove(testFile)
	return dir, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
