package randstr

import (
	"errors"
)

var (
	// ErrNoCharacters is returned when the resolved character set is empty,
	// i.e. a generator or an override was requested with zero alphabet tags.
	ErrNoCharacters = errors.New("no valid characters provided for random string generation")

	// ErrUnknownAlphabet is returned when a tag outside the closed tag set is supplied.
	ErrUnknownAlphabet = errors.New("unknown alphabet tag")

	// ErrInvalidLength is returned when the requested length is not a positive integer.
	ErrInvalidLength = errors.New("length must be a positive integer")

	// ErrNilSource is returned when no secure random byte source was bound to the generator.
	ErrNilSource = errors.New("secure random byte source is not available")

	// ErrAlphabetTooLarge is returned when the resolved character set cannot be
	// indexed by a single byte.
	ErrAlphabetTooLarge = errors.New("character set exceeds 256 characters")
)
