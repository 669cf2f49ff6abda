package crypto

import (
	"errors"
	"fmt"
	"math"
)

// DefaultMaxAttempts bounds rejection sampling. Each candidate is rejected
// with probability below one half, so reaching the cap means the source is broken.
const DefaultMaxAttempts = 128

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidRange    = fmt.Errorf("%w: range must be greater than zero", ErrInvalidArgument)
	ErrRetryLimit      = errors.New("rejection sampling exceeded retry limit")
)

// Tier describes the quality of the randomness behind a value.
type Tier int

const (
	// TierSystem values came from the operating system CSPRNG.
	TierSystem Tier = iota
	// TierFallback values came from the seeded fallback generator.
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierSystem:
		return "system"
	case TierFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// Worse returns the lower-quality of two tiers.
func Worse(a, b Tier) Tier {
	if a > b {
		return a
	}
	return b
}

// Policy decides what happens when the system source fails.
type Policy int

const (
	// AllowFallback draws from the fallback generator and reports TierFallback.
	AllowFallback Policy = iota
	// RequireSystem fails with ErrEntropyUnavailable instead of downgrading.
	RequireSystem
)

// IntSampler draws integers uniformly from [0, n).
type IntSampler interface {
	Uniform(n uint32) (uint32, Tier, error)
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithPolicy sets the behaviour on system source failure.
func WithPolicy(p Policy) SamplerOption {
	return func(s *Sampler) { s.policy = p }
}

// WithMaxAttempts sets the rejection sampling retry cap. Values below one are ignored.
func WithMaxAttempts(n int) SamplerOption {
	return func(s *Sampler) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// Sampler draws unbiased integers using rejection sampling over a system
// source, falling back to a seeded generator when the policy allows it.
type Sampler struct {
	system      Uint32Source
	fallback    Uint32Generator
	policy      Policy
	maxAttempts int
}

// NewSampler creates a Sampler. A nil system source means NewSystemSource().
// fallback may be nil, in which case system source failures are always
// returned as ErrEntropyUnavailable.
func NewSampler(system Uint32Source, fallback Uint32Generator, opts ...SamplerOption) *Sampler {
	if system == nil {
		system = NewSystemSource()
	}
	s := &Sampler{
		system:      system,
		fallback:    fallback,
		policy:      AllowFallback,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Uniform returns an integer in [0, n) together with the tier of the
// candidate it was derived from. Candidates at or above the largest multiple
// of n not exceeding MaxUint32 are rejected, so every result is equally likely.
func (s *Sampler) Uniform(n uint32) (uint32, Tier, error) {
	if n == 0 {
		return 0, TierSystem, ErrInvalidRange
	}

	limit := (uint64(math.MaxUint32) / uint64(n)) * uint64(n)

	for i, attempts := 0, s.maxAttempts; i < attempts; i++ {
		candidate, tier, err := s.next()
		if err != nil {
			return 0, tier, err
		}
		if uint64(candidate) < limit {
			return candidate % n, tier, nil
		}
	}

	return 0, TierSystem, ErrRetryLimit
}

func (s *Sampler) next() (uint32, Tier, error) {
	v, err := s.system.TryUint32()
	if err == nil {
		return v, TierSystem, nil
	}
	if s.policy == RequireSystem || s.fallback == nil {
		if !errors.Is(err, ErrEntropyUnavailable) {
			err = fmt.Errorf("%w: %w", ErrEntropyUnavailable, err)
		}
		return 0, TierSystem, err
	}
	return s.fallback.Uint32(), TierFallback, nil
}
