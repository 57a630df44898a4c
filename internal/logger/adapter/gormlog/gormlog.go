package gormlog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Logger adapts the global zerolog logger to gorm's logger interface so SQL
// traffic lands in the same stream as everything else.
type Logger struct {
	// SlowThreshold marks queries running longer than this as warnings.
	SlowThreshold time.Duration
}

// New creates a gorm logger writing through zerolog.
func New() *Logger {
	return &Logger{
		SlowThreshold: 200 * time.Millisecond, //nolint:mnd
	}
}

// LogMode implements gorm's logger interface. Level filtering is left to the
// zerolog global level, so the requested gorm level is ignored.
func (l *Logger) LogMode(_ gormlogger.LogLevel) gormlogger.Interface {
	return l
}

// Info implements gorm's logger interface.
func (l *Logger) Info(_ context.Context, msg string, args ...interface{}) {
	log.Info().Msgf(msg, args...)
}

// Warn implements gorm's logger interface.
func (l *Logger) Warn(_ context.Context, msg string, args ...interface{}) {
	log.Warn().Msgf(msg, args...)
}

// Error implements gorm's logger interface.
func (l *Logger) Error(_ context.Context, msg string, args ...interface{}) {
	log.Error().Msgf(msg, args...)
}

// Trace logs completed queries at trace level, slow ones at warn and failed
// ones at error. Record-not-found is a regular controller outcome, not a
// query failure, so it stays at trace level.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		log.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold:
		log.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	default:
		log.Trace().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
