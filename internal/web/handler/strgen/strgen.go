// Package strgen implements the /v1/strings endpoint minting batches of
// ephemeral random strings that are never persisted.
package strgen

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tokenmint/tokenmint/internal/config"
	"github.com/tokenmint/tokenmint/internal/mint"
	"github.com/tokenmint/tokenmint/internal/randstr"
	"github.com/tokenmint/tokenmint/internal/web/handler"
)

// Path is the route for the ephemeral strings endpoint.
const Path = handler.V1Path + "/strings"

// GenerateRequest is the body of POST /v1/strings.
type GenerateRequest struct {
	Count    int      `json:"count" validate:"omitempty,min=1"`
	Length   int      `json:"length" validate:"omitempty,min=1"`
	Alphabet []string `json:"alphabet" validate:"omitempty,dive,oneof=a-z A-Z 0-9 -_"`
}

// GenerateResponse carries the minted batch. The strings exist only here.
type GenerateResponse struct {
	Strings []string `json:"strings"`
	Count   int      `json:"count"`
}

// Service is the ephemeral strings handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	mint      *mint.Service
	validator *validator.Validate
}

// Handler is the ephemeral strings handler.
var Handler = Service{}

// Init initializes the ephemeral strings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, _ *gorm.DB, mintSvc *mint.Service) error {
	if app == nil || cfg == nil || mintSvc == nil {
		return errors.New("app, cfg or mint service is nil")
	}

	s.cfg = cfg
	s.mint = mintSvc
	s.validator = validator.New()

	app.Post(Path, s.Post)

	return nil
}

// Post mints a batch of random strings without keeping any trace of them.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(GenerateRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ValidationMessages(err)})
	}

	tags := make([]randstr.Alphabet, 0, len(req.Alphabet))

	for _, name := range req.Alphabet {
		tag, err := randstr.ParseAlphabet(name)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		tags = append(tags, tag)
	}

	out, err := s.mint.MintStrings(mint.StringsRequest{
		Count:    req.Count,
		Length:   req.Length,
		Alphabet: tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, mint.ErrInvalidCount),
			errors.Is(err, mint.ErrCountTooLarge),
			errors.Is(err, mint.ErrLengthTooLarge),
			errors.Is(err, randstr.ErrInvalidLength),
			errors.Is(err, randstr.ErrNoCharacters),
			errors.Is(err, randstr.ErrUnknownAlphabet):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Error().Err(err).Msg("failed to mint strings")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to mint strings"})
		}
	}

	return c.JSON(GenerateResponse{Strings: out, Count: len(out)})
}
