// Package otpkey implements the /v1/otp endpoint minting TOTP enrollment keys.
package otpkey

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tokenmint/tokenmint/internal/config"
	"github.com/tokenmint/tokenmint/internal/mint"
	"github.com/tokenmint/tokenmint/internal/web/handler"
)

// Path is the route for the OTP enrollment endpoint.
const Path = handler.V1Path + "/otp"

// EnrollRequest is the body of POST /v1/otp.
type EnrollRequest struct {
	Account string `json:"account" validate:"required,max=100"`
}

// EnrollResponse carries a freshly minted TOTP enrollment key. Like every
// other secret it appears exactly once and is not retained anywhere.
type EnrollResponse struct {
	Account string `json:"account"`
	Issuer  string `json:"issuer"`
	Secret  string `json:"secret"`
	URL     string `json:"url"`
}

// Service is the OTP enrollment handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	mint      *mint.Service
	validator *validator.Validate
}

// Handler is the OTP enrollment handler.
var Handler = Service{}

// Init initializes the OTP enrollment handler.
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

// Post mints a TOTP enrollment key for one account.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(EnrollRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": handler.ValidationMessages(err)})
	}

	key, err := s.mint.MintOTPKey(req.Account)
	if err != nil {
		if errors.Is(err, mint.ErrAccountRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to mint otp key")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to mint otp key"})
	}

	return c.Status(fiber.StatusCreated).JSON(EnrollResponse{
		Account: key.AccountName(),
		Issuer:  key.Issuer(),
		Secret:  key.Secret(),
		URL:     key.String(),
	})
}
