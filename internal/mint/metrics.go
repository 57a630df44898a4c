package mint

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tokenmint/tokenmint/internal/randstr"
)

var (
	mintedTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "tokenmint_strings_minted_total",
			Help: "Number of random strings minted, differentiated by kind.",
		},
		[]string{"kind"},
	)

	mintFailures = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "tokenmint_mint_failures_total",
			Help: "Number of failed mint operations, differentiated by reason.",
		},
		[]string{"reason"},
	)

	secretLength = promauto.NewHistogram( //nolint:gochecknoglobals
		prometheus.HistogramOpts{
			Name:    "tokenmint_secret_length",
			Help:    "Character length of minted secrets.",
			Buckets: prometheus.ExponentialBuckets(8, 2, 9), //nolint:mnd
		},
	)
)

// Metric label values for mintedTotal and mintFailures.
const (
	kindToken     = "token"
	kindEphemeral = "ephemeral"
	kindOTP       = "otp"

	reasonValidation = "validation"
	reasonGenerate   = "generate"
	reasonStore      = "store"
	reasonOTP        = "otp"
)

// failureReason buckets a generate error for the failure counter. Bad input
// counts as validation, everything else as a generator fault.
func failureReason(err error) string {
	switch {
	case errors.Is(err, randstr.ErrInvalidLength),
		errors.Is(err, randstr.ErrNoCharacters),
		errors.Is(err, randstr.ErrUnknownAlphabet),
		errors.Is(err, randstr.ErrAlphabetTooLarge):
		return reasonValidation
	default:
		return reasonGenerate
	}
}
