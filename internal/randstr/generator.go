package randstr

import (
	"crypto/rand"
	"io"
)

// Generator mints random strings over a base character set resolved once at
// construction time. The base set cannot change afterwards; callers wanting a
// different set for a single call pass override tags to Generate.
//
// A Generator is safe for concurrent use when its byte source is. Every call
// to Generate draws from its own byte batch, so goroutines never share
// intermediate state. crypto/rand.Reader qualifies.
type Generator struct {
	src     io.Reader
	charset []byte
}

// New returns a Generator reading random bytes from src and using the given
// alphabet tags as its base character set.
//
// The source is a hard requirement. A nil src returns ErrNilSource instead of
// silently falling back to a weaker randomness source.
func New(src io.Reader, tags ...Alphabet) (*Generator, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	charset, err := Expand(tags...)
	if err != nil {
		return nil, err
	}

	return &Generator{
		src:     src,
		charset: charset,
	}, nil
}

// NewGenerator returns a Generator backed by crypto/rand.Reader.
func NewGenerator(tags ...Alphabet) (*Generator, error) {
	return New(rand.Reader, tags...)
}

// Generate returns a random string of exactly length characters.
//
// Without override tags the characters come from the base set the Generator
// was built with. With override tags the overrides replace the base set
// entirely for this one call; they are never merged with it and never
// persisted, so the next call without overrides uses the base set again.
func (g *Generator) Generate(length int, override ...Alphabet) (string, error) {
	charset := g.charset

	if len(override) > 0 {
		var err error

		charset, err = Expand(override...)
		if err != nil {
			return "", err
		}
	}

	return sample(g.src, charset, length)
}

// CharacterSet returns a copy of the base character set this Generator draws
// from. Mutating the returned slice has no effect on the Generator.
func (g *Generator) CharacterSet() []byte {
	out := make([]byte, len(g.charset))
	copy(out, g.charset)

	return out
}
