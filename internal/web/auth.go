package web

import (
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tokenmint/tokenmint/internal/config"
	"github.com/tokenmint/tokenmint/internal/web/handler/health"
)

// HeaderAPIKey is the header clients present their API key in.
const HeaderAPIKey = "X-API-Key"

// NewAPIKeyAuth returns a middleware enforcing the X-API-Key header on every
// API route. The presented key is compared against the configured argon2id
// hash; the plain key itself is never stored or logged.
//
// The operational endpoints stay reachable without a key so probes and
// scrapers keep working. In dev mode without a configured hash the check is
// disabled entirely.
func NewAPIKeyAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if IsOpsPath(c) {
			return c.Next()
		}

		if cfg.DevMode && cfg.Webserver.APIKeyHash == "" {
			return c.Next()
		}

		key := c.Get(HeaderAPIKey)
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing api key"})
		}

		match, err := argon2id.ComparePasswordAndHash(key, cfg.Webserver.APIKeyHash)
		if err != nil {
			log.Error().Err(err).Msg("api key hash comparison failed, check webserver.apikeyhash")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid api key"})
		}

		if !match {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid api key"})
		}

		return c.Next()
	}
}

// IsOpsPath checks if the current request is for an operational endpoint.
func IsOpsPath(c *fiber.Ctx) bool {
	path := strings.ToLower(c.Path())

	return path == health.Path || path == health.MetricsPath
}
