// Package health implements the operational endpoints: the liveness probe
// and the Prometheus scrape endpoint. Both stay outside the API key check.
package health

import (
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/tokenmint/tokenmint/internal/web/handler"
)

const (
	// Path is the liveness probe route.
	Path = handler.RootPath + "healthz"

	// MetricsPath is the Prometheus scrape route.
	MetricsPath = handler.RootPath + "metrics"
)

// Service is the operational endpoints handler service.
type Service struct {
	handler.Service
	alive *atomic.Bool
}

// Handler is the operational endpoints handler.
var Handler = Service{}

// Init initializes the operational endpoints handler.
func (s *Service) Init(app *fiber.App, alive *atomic.Bool) {
	if app == nil || alive == nil {
		log.Fatal().Msg("app or alive flag is nil")
		return
	}

	s.alive = alive

	app.Get(Path, s.Get)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
}

// Get answers the liveness probe. During graceful shutdown the flag flips
// to false so load balancers drain this instance before the listener stops.
func (s *Service) Get(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("ok")
}
