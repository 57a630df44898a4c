package randstr

import (
	"io"

	"github.com/pkg/errors"
)

const (
	// byteRange is the total number of possible byte values (2^8).
	byteRange = 256

	// chunkFactor sizes the random byte batch relative to the requested
	// length. Two bytes per output character keeps the expected number of
	// refills low even for small alphabets with high rejection rates.
	chunkFactor = 2
)

// sample returns a string of exactly length characters, each drawn uniformly
// and independently from charset by rejection sampling bytes read from src.
//
// Bytes at or above the largest multiple of len(charset) that fits the byte
// range would wrap modulo len(charset) onto low-index characters and skew the
// distribution, so they are discarded and a fresh byte is drawn instead.
func sample(src io.Reader, charset []byte, length int) (string, error) {
	if length <= 0 {
		return "", ErrInvalidLength
	}

	clen := len(charset)
	if clen == 0 {
		return "", ErrNoCharacters
	}

	if clen > byteRange {
		return "", ErrAlphabetTooLarge
	}

	// Largest multiple of clen that is <= 256. For clen dividing 256 this is
	// 256 itself and no byte is ever rejected.
	threshold := clen * (byteRange / clen)

	out := make([]byte, 0, length)
	buf := make([]byte, chunkFactor*length) // storage for random bytes, refilled in full

	for {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", errors.Wrap(err, "reading from secure random byte source")
		}

		for _, b := range buf {
			if int(b) >= threshold {
				// Skip this byte to avoid modulo bias.
				continue
			}

			out = append(out, charset[int(b)%clen])
			if len(out) == length {
				return string(out), nil
			}
		}
	}
}
