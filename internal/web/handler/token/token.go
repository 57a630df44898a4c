// Package token implements the /v1/tokens endpoints: minting, listing,
// inspecting, revoking and verifying tokens.
package token

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tokenmint/tokenmint/internal/config"
	controller "github.com/tokenmint/tokenmint/internal/db/controller/token"
	"github.com/tokenmint/tokenmint/internal/mint"
	"github.com/tokenmint/tokenmint/internal/randstr"
	"github.com/tokenmint/tokenmint/internal/web/handler"
)

const (
	// Path is the route group for token endpoints.
	Path = handler.V1Path + "/tokens"

	// VerifyPath is the sub route for secret verification.
	VerifyPath = "/verify"
)

// Service is the token endpoints handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	mint      *mint.Service
	validator *validator.Validate
}

// Handler is the token endpoints handler.
var Handler = Service{}

// Init initializes the token endpoints handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, mintSvc *mint.Service) error {
	if app == nil || cfg == nil || db == nil || mintSvc == nil {
		return errors.New("app, cfg, db or mint service is nil")
	}

	s.cfg = cfg
	s.db = db
	s.mint = mintSvc
	s.validator = validator.New()

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Post(handler.RouterRootPath, s.Post)
		router.Get(handler.RouterRootPath, s.List)
		router.Post(VerifyPath, s.Verify)
		router.Get("/:id", s.Get)
		router.Delete("/:id", s.Delete)
	})

	return nil
}

// Post mints a new token. The response is the only place the secret ever
// appears; the registry keeps just the fingerprint.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(MintRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ValidationMessages(err)})
	}

	tags, err := parseTags(req.Alphabet)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	minted, err := s.mint.MintToken(mint.TokenRequest{
		Name:     req.Name,
		Length:   req.Length,
		Alphabet: tags,
		TTL:      req.TTL,
	})
	if err != nil {
		return s.mintError(c, err)
	}

	c.Location(s.cfg.Webserver.URL + Path + "/" + minted.Record.ID)

	return c.Status(fiber.StatusCreated).JSON(MintResponse{
		Response: fromModel(&minted.Record),
		Secret:   minted.Secret,
	})
}

// List returns every token record, without secrets.
func (s *Service) List(c *fiber.Ctx) error {
	records, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list tokens")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list tokens"})
	}

	out := make([]Response, 0, len(records))
	for i := range records {
		out = append(out, fromModel(&records[i]))
	}

	return c.JSON(fiber.Map{"tokens": out, "count": len(out)})
}

// Get returns a single token record by id.
func (s *Service) Get(c *fiber.Ctx) error {
	record, err := controller.Get(s.db, c.Params("id"))
	if err != nil {
		if errors.Is(err, controller.ErrTokenNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to load token")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load token"})
	}

	return c.JSON(fromModel(record))
}

// Delete revokes the token with the given id. The record stays in the
// registry so the revocation is visible and permanent.
func (s *Service) Delete(c *fiber.Ctx) error {
	record, err := s.mint.RevokeToken(c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, controller.ErrTokenNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, controller.ErrTokenAlreadyRevoked):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Error().Err(err).Msg("failed to revoke token")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to revoke token"})
		}
	}

	return c.JSON(fromModel(record))
}

// Verify checks a presented secret. Well formed requests always answer 200;
// the body says whether the token is live and if not, why.
func (s *Service) Verify(c *fiber.Ctx) error {
	req := new(VerifyRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ValidationMessages(err)})
	}

	record, err := s.mint.VerifyToken(req.Secret)

	switch {
	case err == nil:
		resp := fromModel(record)

		return c.JSON(VerifyResponse{Valid: true, Token: &resp})
	case errors.Is(err, controller.ErrTokenNotFound):
		return c.JSON(VerifyResponse{Valid: false, Reason: "unknown"})
	case errors.Is(err, mint.ErrTokenRevoked):
		return c.JSON(VerifyResponse{Valid: false, Reason: "revoked"})
	case errors.Is(err, mint.ErrTokenExpired):
		return c.JSON(VerifyResponse{Valid: false, Reason: "expired"})
	default:
		log.Error().Err(err).Msg("failed to verify token")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to verify token"})
	}
}

// mintError maps minting failures onto HTTP statuses.
func (s *Service) mintError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, mint.ErrNameRequired),
		errors.Is(err, mint.ErrLengthTooLarge),
		errors.Is(err, mint.ErrInvalidTTL),
		errors.Is(err, randstr.ErrInvalidLength),
		errors.Is(err, randstr.ErrNoCharacters),
		errors.Is(err, randstr.ErrUnknownAlphabet):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("failed to mint token")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to mint token"})
	}
}

// parseTags converts alphabet names from a request into alphabet tags.
func parseTags(names []string) ([]randstr.Alphabet, error) {
	tags := make([]randstr.Alphabet, 0, len(names))

	for _, name := range names {
		tag, err := randstr.ParseAlphabet(name)
		if err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}

	return tags, nil
}
