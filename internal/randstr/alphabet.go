package randstr

import (
	"github.com/pkg/errors"
)

// Alphabet is a symbolic tag naming one fixed character class.
type Alphabet string

// The closed set of alphabet tags. Tags expand in caller order; supplying the
// same tag twice keeps its characters twice, which doubles their sampling weight.
const (
	// Lowercase expands to the latin lowercase letters a-z.
	Lowercase Alphabet = "a-z"
	// Uppercase expands to the latin uppercase letters A-Z.
	Uppercase Alphabet = "A-Z"
	// Digits expands to the decimal digits 0-9.
	Digits Alphabet = "0-9"
	// URLSafe expands to the two URL-safe separator characters hyphen and underscore.
	URLSafe Alphabet = "-_"
)

var charClasses = map[Alphabet]string{
	Lowercase: "abcdefghijklmnopqrstuvwxyz",
	Uppercase: "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	Digits:    "0123456789",
	URLSafe:   "-_",
}

// ParseAlphabet converts a tag name as it appears in config files or API
// requests into an Alphabet, rejecting names outside the closed tag set.
func ParseAlphabet(name string) (Alphabet, error) {
	tag := Alphabet(name)
	if _, ok := charClasses[tag]; !ok {
		return "", errors.Wrapf(ErrUnknownAlphabet, "%q", name)
	}

	return tag, nil
}

// Expand resolves alphabet tags into the concrete character set eligible for
// sampling. Concatenation preserves caller order and keeps duplicates: the
// order determines which character a sampled index maps to, and duplicated
// characters are drawn proportionally more often.
func Expand(tags ...Alphabet) ([]byte, error) {
	var set []byte

	for _, tag := range tags {
		class, ok := charClasses[tag]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownAlphabet, "%q", string(tag))
		}

		set = append(set, class...)
	}

	if len(set) == 0 {
		return nil, ErrNoCharacters
	}

	return set, nil
}
