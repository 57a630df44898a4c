// Package mint turns the random string generator into a token service. It
// mints secrets, keeps fingerprint-only records of them, verifies presented
// secrets against those records and produces TOTP enrollment keys.
package mint

import (
	"crypto/rand"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tokenmint/tokenmint/internal/config"
	"github.com/tokenmint/tokenmint/internal/db/controller/token"
	"github.com/tokenmint/tokenmint/internal/db/models"
	"github.com/tokenmint/tokenmint/internal/randstr"
)

// Service mints tokens and ephemeral strings within the configured limits
// and defaults. It is safe for concurrent use.
type Service struct {
	cfg         config.Mint
	db          *gorm.DB
	gen         *randstr.Generator
	src         io.Reader
	defaultTags []randstr.Alphabet
}

// New builds a Service drawing randomness from crypto/rand.Reader.
func New(cfg config.Mint, db *gorm.DB) (*Service, error) {
	return NewWithSource(cfg, db, rand.Reader)
}

// NewWithSource builds a Service drawing randomness from src. Tests inject
// a deterministic source here; everything else goes through New.
func NewWithSource(cfg config.Mint, db *gorm.DB, src io.Reader) (*Service, error) {
	tags := make([]randstr.Alphabet, 0, len(cfg.DefaultAlphabet))

	for _, raw := range cfg.DefaultAlphabet {
		tag, err := randstr.ParseAlphabet(raw)
		if err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}

	gen, err := randstr.New(src, tags...)
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:         cfg,
		db:          db,
		gen:         gen,
		src:         src,
		defaultTags: tags,
	}, nil
}

// MintToken mints a secret, persists a fingerprint-only record for it and
// returns both. The secret appears exactly once in the returned MintedToken;
// it is neither stored nor logged.
func (s *Service) MintToken(req TokenRequest) (*MintedToken, error) {
	if req.Name == "" {
		mintFailures.WithLabelValues(reasonValidation).Inc()

		return nil, ErrNameRequired
	}

	length, err := s.clampLength(req.Length)
	if err != nil {
		mintFailures.WithLabelValues(reasonValidation).Inc()

		return nil, err
	}

	ttl := req.TTL
	if ttl < 0 {
		mintFailures.WithLabelValues(reasonValidation).Inc()

		return nil, ErrInvalidTTL
	}

	if ttl == 0 {
		ttl = s.cfg.DefaultTTL
	}

	secret, err := s.gen.Generate(length, req.Alphabet...)
	if err != nil {
		mintFailures.WithLabelValues(failureReason(err)).Inc()

		return nil, err
	}

	tags := req.Alphabet
	if len(tags) == 0 {
		tags = s.defaultTags
	}

	record := models.Token{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Fingerprint: models.FingerprintSecret(secret),
		Alphabet:    joinTags(tags),
		Length:      length,
	}

	if ttl > 0 {
		expiresAt := time.Now().Add(time.Duration(ttl) * time.Second)
		record.ExpiresAt = &expiresAt
	}

	if err := token.Create(s.db, &record); err != nil {
		mintFailures.WithLabelValues(reasonStore).Inc()

		return nil, err
	}

	mintedTotal.WithLabelValues(kindToken).Inc()
	secretLength.Observe(float64(length))

	log.Info().
		Str("token_id", record.ID).
		Str("name", record.Name).
		Int("length", record.Length).
		Int("ttl_seconds", ttl).
		Msg("token minted")

	return &MintedToken{Record: record, Secret: secret}, nil
}

// MintStrings mints a batch of ephemeral strings. Nothing about the batch is
// persisted or logged; once the caller drops the slice the strings are gone.
func (s *Service) MintStrings(req StringsRequest) ([]string, error) {
	count := req.Count

	switch {
	case count < 0:
		mintFailures.WithLabelValues(reasonValidation).Inc()

		return nil, ErrInvalidCount
	case count == 0:
		count = 1
	case count > s.cfg.MaxCount:
		mintFailures.WithLabelValues(reasonValidation).Inc()

		return nil, ErrCountTooLarge
	}

	length, err := s.clampLength(req.Length)
	if err != nil {
		mintFailures.WithLabelValues(reasonValidation).Inc()

		return nil, err
	}

	out := make([]string, 0, count)

	for i := 0; i < count; i++ {
		str, err := s.gen.Generate(length, req.Alphabet...)
		if err != nil {
			mintFailures.WithLabelValues(failureReason(err)).Inc()

			return nil, err
		}

		out = append(out, str)
		secretLength.Observe(float64(length))
	}

	mintedTotal.WithLabelValues(kindEphemeral).Add(float64(count))

	return out, nil
}

// VerifyToken checks a presented secret against the registry. It returns the
// matching record only while the token is neither revoked nor expired.
func (s *Service) VerifyToken(secret string) (*models.Token, error) {
	record, err := token.GetByFingerprint(s.db, models.FingerprintSecret(secret))
	if err != nil {
		return nil, err
	}

	if record.Revoked() {
		return nil, ErrTokenRevoked
	}

	if record.Expired(time.Now()) {
		return nil, ErrTokenExpired
	}

	return record, nil
}

// RevokeToken permanently revokes the token with the given id.
func (s *Service) RevokeToken(id string) (*models.Token, error) {
	record, err := token.Revoke(s.db, id, time.Now())
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("token_id", record.ID).
		Str("name", record.Name).
		Msg("token revoked")

	return record, nil
}

// PurgeExpired removes every token record whose expiry has passed and
// returns how many went away.
func (s *Service) PurgeExpired() (int64, error) {
	purged, err := token.DeleteExpired(s.db, time.Now())
	if err != nil {
		return 0, err
	}

	if purged > 0 {
		log.Info().Int64("purged", purged).Msg("expired tokens purged")
	}

	return purged, nil
}

// MintOTPKey produces a TOTP enrollment key for the given account. The key
// secret comes from the same randomness source as every other mint.
func (s *Service) MintOTPKey(account string) (*otp.Key, error) {
	if account == "" {
		mintFailures.WithLabelValues(reasonValidation).Inc()

		return nil, ErrAccountRequired
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.cfg.OTPIssuer,
		AccountName: account,
		SecretSize:  uint(s.cfg.OTPSecretSize), //nolint:gosec
		Rand:        s.src,
	})
	if err != nil {
		mintFailures.WithLabelValues(reasonOTP).Inc()

		return nil, errors.Wrap(err, "generating totp enrollment key")
	}

	mintedTotal.WithLabelValues(kindOTP).Inc()

	return key, nil
}

// clampLength resolves the effective secret length for a request. Negative
// lengths pass through so the generator can reject them.
func (s *Service) clampLength(requested int) (int, error) {
	if requested == 0 {
		return s.cfg.DefaultLength, nil
	}

	if requested > s.cfg.MaxLength {
		return 0, ErrLengthTooLarge
	}

	return requested, nil
}

// joinTags renders alphabet tags the way token records store them.
func joinTags(tags []randstr.Alphabet) string {
	parts := make([]string, 0, len(tags))

	for _, tag := range tags {
		parts = append(parts, string(tag))
	}

	return strings.Join(parts, ",")
}
