package logging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger sends gorm's log output to zerolog. SQL statements are logged
// at trace level, slow ones at warn.
type GormLogger struct {
	logger        zerolog.Logger
	level         gormlogger.LogLevel
	SlowThreshold time.Duration
}

func NewGormLogger(l zerolog.Logger, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{
		logger:        l.With().Str("component", "gorm").Logger(),
		level:         gormlogger.Warn,
		SlowThreshold: slowThreshold,
	}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *g
	c.level = level
	return &c
}

func (g *GormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.logger.Info().Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.logger.Warn().Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.logger.Error().Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		g.logger.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("sql failed")
	case g.SlowThreshold > 0 && elapsed > g.SlowThreshold && g.level >= gormlogger.Warn:
		g.logger.Warn().Dur("elapsed", elapsed).Dur("threshold", g.SlowThreshold).Int64("rows", rows).Str("sql", sql).Msg("slow sql")
	default:
		g.logger.Trace().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("sql completed")
	}
}
