package daemon

import (
	"errors"
)

var (
	// ErrConfigNil is returned when the daemon is created without a configuration.
	ErrConfigNil = errors.New("config is nil")

	// ErrUnknownGormEngine is returned when db.gormengine names an unsupported database engine.
	ErrUnknownGormEngine = errors.New("unknown gorm engine, must be sqlite, mysql or postgres")
)
