package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"
)

// Sampler is a reproducible pseudo-random stream for one logical context.
// Two samplers built from the same seed tokens yield the same sequence of
// draws; samplers are not safe for concurrent use.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler seeds a fresh stream from the canonical form of tokens.
func NewSampler(tokens ...any) *Sampler {
	sum := sha256.Sum256([]byte(SeedKey(tokens...)))
	hi := binary.BigEndian.Uint64(sum[:8])
	lo := binary.BigEndian.Uint64(sum[8:16])
	return &Sampler{rng: rand.New(rand.NewPCG(hi, lo))}
}

// SeedKey joins tokens into the canonical seed string, e.g. "20|73.5|6".
// Floats use the shortest representation so 20.0 and 20 seed identically.
func SeedKey(tokens ...any) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = fmt.Sprint(t)
	}
	return strings.Join(parts, "|")
}

// Float draws uniformly from [lo, hi).
func (s *Sampler) Float(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Int draws uniformly from [lo, hi], both ends inclusive.
func (s *Sampler) Int(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}

// Bool returns true with probability p.
func (s *Sampler) Bool(p float64) bool {
	return s.rng.Float64() < p
}

// Unit draws from [0, 1).
func (s *Sampler) Unit() float64 {
	return s.rng.Float64()
}
