// Package logging configures the process-wide zerolog logger and bridges the
// loggers of discordgo and gorm into it.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string
	// File, when set, receives a copy of every log line and is rotated by
	// size.
	File string
	// Console writes human readable lines instead of JSON.
	Console bool
}

// Setup builds a logger from opts and installs it as the global logger. The
// returned closer flushes the log file, if any.
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var out io.Writer = os.Stderr
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, file)
		closer = file
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	return logger, closer, nil
}

// ParseLevel maps a level name to a zerolog level. "verbose" is accepted as
// an alias of trace. An empty name means debug.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return zerolog.DebugLevel, nil
	case "verbose", "silly":
		return zerolog.TraceLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// Named returns a child of the global logger tagged with a component name.
func Named(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

var discordgoLevels = map[int]zerolog.Level{
	discordgo.LogError:         zerolog.ErrorLevel,
	discordgo.LogWarning:       zerolog.WarnLevel,
	discordgo.LogInformational: zerolog.InfoLevel,
	discordgo.LogDebug:         zerolog.DebugLevel,
}

// DiscordgoLogger returns a function suitable for discordgo.Logger that
// forwards library messages to l.
func DiscordgoLogger(l zerolog.Logger) func(msgL, caller int, format string, a ...interface{}) {
	l = l.With().Str("component", "discordgo").Logger()
	return func(msgL, _ int, format string, a ...interface{}) {
		level, ok := discordgoLevels[msgL]
		if !ok {
			level = zerolog.InfoLevel
		}
		l.WithLevel(level).Msg(strings.ReplaceAll(fmt.Sprintf(format, a...), "\n", " "))
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
