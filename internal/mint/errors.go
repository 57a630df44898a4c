package mint

import (
	"errors"
)

var (
	// ErrNameRequired is returned when a token is requested without a name.
	ErrNameRequired = errors.New("token name is required")

	// ErrAccountRequired is returned when an OTP key is requested without an account name.
	ErrAccountRequired = errors.New("otp account name is required")

	// ErrLengthTooLarge is returned when the requested length exceeds mint.maxlength.
	ErrLengthTooLarge = errors.New("requested length exceeds the configured maximum")

	// ErrCountTooLarge is returned when the requested batch size exceeds mint.maxcount.
	ErrCountTooLarge = errors.New("requested count exceeds the configured maximum")

	// ErrInvalidCount is returned when the requested batch size is negative.
	ErrInvalidCount = errors.New("count must be a positive integer")

	// ErrInvalidTTL is returned when the requested lifetime is negative.
	ErrInvalidTTL = errors.New("ttl must not be negative")

	// ErrTokenRevoked is returned when a presented secret belongs to a revoked token.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrTokenExpired is returned when a presented secret belongs to an expired token.
	ErrTokenExpired = errors.New("token expired")
)
