package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tokenmint/tokenmint/internal/config"
	fiberlogger "github.com/tokenmint/tokenmint/internal/logger/adapter/fiber"
	"github.com/tokenmint/tokenmint/internal/mint"
	"github.com/tokenmint/tokenmint/internal/web/handler/health"
	"github.com/tokenmint/tokenmint/internal/web/handler/otpkey"
	"github.com/tokenmint/tokenmint/internal/web/handler/strgen"
	"github.com/tokenmint/tokenmint/internal/web/handler/token"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	mint         *mint.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the token service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	// Wait for an interrupt
	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: flip the liveness flag first so
	// load balancers drain this instance before the listener goes away.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: /healthz returns 503 for %d seconds to drain active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, mintSvc *mint.Service) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if mintSvc == nil {
		panic("mint service cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "TokenMint",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	// init web service
	service := &Service{
		cfg:  cfg,
		App:  app,
		db:   db,
		mint: mintSvc,
	}
	service.alive.Store(true)

	// access logging; request bodies and API keys never reach the log
	app.Use(fiberlogger.New(fiberlogger.Config{Config: cfg.Log}))

	// every API route sits behind the key check
	app.Use(NewAPIKeyAuth(cfg))

	// operational endpoints, reachable without a key
	health.Handler.Init(app, &service.alive)

	// init handlers (they register their own routes)
	if err := token.Handler.Init(app, cfg, db, mintSvc); err != nil {
		log.Fatal().Err(err).Msg("failed to init token handler")
	}

	if err := strgen.Handler.Init(app, cfg, db, mintSvc); err != nil {
		log.Fatal().Err(err).Msg("failed to init strings handler")
	}

	if err := otpkey.Handler.Init(app, cfg, db, mintSvc); err != nil {
		log.Fatal().Err(err).Msg("failed to init otp handler")
	}

	return service
}
