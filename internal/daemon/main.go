// Package daemon wires the token registry database, the mint service and the
// web service together into the long-running TokenMint process.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tokenmint/tokenmint/internal/config"
	"github.com/tokenmint/tokenmint/internal/db/dsn"
	"github.com/tokenmint/tokenmint/internal/db/models"
	"github.com/tokenmint/tokenmint/internal/logger/adapter/gormlog"
	"github.com/tokenmint/tokenmint/internal/mint"
	"github.com/tokenmint/tokenmint/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg         *config.Config
	db          *gorm.DB
	mintService *mint.Service
	webService  *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(&models.Token{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate token registry")
	}

	mintService, err := mint.New(cfg.Mint, db)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize mint service")
	}

	d := &Daemon{
		cfg:         cfg,
		db:          db,
		mintService: mintService,
		webService:  web.New(cfg, db, mintService),
	}

	// clear leftovers from the previous run, then keep sweeping in the background
	d.sweep()

	go d.sweepLoop()

	return d, nil
}

// openDatabase opens the token registry with the configured gorm engine.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormlog.New()}

	var (
		db  *gorm.DB
		err error
	)

	switch cfg.DB.GormEngine {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.DB.Path), gormCfg)
	case "mysql":
		db, err = gorm.Open(gormmysql.Open(dsn.Create(cfg)), gormCfg)
	case "postgres":
		db, err = gorm.Open(gormpostgres.Open(dsn.CreatePostgres(cfg)), gormCfg)
	default:
		return nil, errors.Wrapf(ErrUnknownGormEngine, "%q", cfg.DB.GormEngine)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.GormEngine)
	}

	return db, nil
}
