// Package random supplies the generators used for fleet placement.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"

	"battleships/internal/config"
)

// NewSeed generates a seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Source hands out independent generators derived from one base generator,
// so a fixed seed reproduces every placement in order.
type Source struct {
	mu   sync.Mutex
	base *rand.Rand
}

func NewSource(seed uint64) *Source {
	return &Source{base: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// FromConfig seeds from RANDOM_SEED, or from crypto/rand when it is zero.
func FromConfig(cfg *config.Config) (*Source, error) {
	seed := cfg.RandomSeed
	if seed == 0 {
		var err error
		if seed, err = NewSeed(); err != nil {
			return nil, err
		}
	}
	return NewSource(seed), nil
}

// Fork returns a generator for use by a single goroutine.
func (s *Source) Fork() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rand.New(rand.NewPCG(s.base.Uint64(), s.base.Uint64()))
}
