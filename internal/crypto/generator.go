package crypto

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars     = "0123456789"
	symbolChars    = "!@#$%^&*()-_+=[]{}<>?/|:;.,"

	// AmbiguousChars are visually confusable characters removed when
	// Request.AvoidAmbiguous is set.
	AmbiguousChars = "Il1O0`'\" ,;:.|\\/"

	DefaultLength = 16
)

var (
	ErrNoCharacterTypes      = fmt.Errorf("%w: at least one character type must be selected", ErrInvalidArgument)
	ErrLengthZero            = fmt.Errorf("%w: password length must be greater than zero", ErrInvalidArgument)
	ErrLengthInsufficient    = fmt.Errorf("%w: password length must be at least equal to the number of selected character types", ErrInvalidArgument)
	ErrNoCharactersAvailable = errors.New("no characters available after removing ambiguous characters")
)

// Class is a named character category.
type Class struct {
	Name  string
	Chars string
}

// Classes in the order their guaranteed characters are drawn.
var (
	Lowercase = Class{Name: "lowercase", Chars: lowercaseChars}
	Uppercase = Class{Name: "uppercase", Chars: uppercaseChars}
	Digits    = Class{Name: "digits", Chars: digitChars}
	Symbols   = Class{Name: "symbols", Chars: symbolChars}
)

// Request configures a single password.
type Request struct {
	Length         int
	Lowercase      bool
	Uppercase      bool
	Digits         bool
	Symbols        bool
	AvoidAmbiguous bool
}

// DefaultRequest returns 16 characters drawn from every class with
// ambiguous characters removed.
func DefaultRequest() Request {
	return Request{
		Length:         DefaultLength,
		Lowercase:      true,
		Uppercase:      true,
		Digits:         true,
		Symbols:        true,
		AvoidAmbiguous: true,
	}
}

// Classes returns the selected classes in draw order.
func (r Request) Classes() []Class {
	var classes []Class
	if r.Lowercase {
		classes = append(classes, Lowercase)
	}
	if r.Uppercase {
		classes = append(classes, Uppercase)
	}
	if r.Digits {
		classes = append(classes, Digits)
	}
	if r.Symbols {
		classes = append(classes, Symbols)
	}
	return classes
}

// Password is a generated password and the weakest entropy tier used to build it.
type Password struct {
	Value string
	Tier  Tier
}

// Generator builds passwords from an IntSampler.
type Generator struct {
	sampler IntSampler
}

// NewGenerator creates a Generator that draws every index from s.
func NewGenerator(s IntSampler) *Generator {
	return &Generator{sampler: s}
}

var defaultGenerator struct {
	once sync.Once
	gen  *Generator
}

// Generate creates a password using the system source with the shared
// fallback generator behind it.
func Generate(req Request) (Password, error) {
	defaultGenerator.once.Do(func() {
		var fallback Uint32Generator
		if g, err := SharedFallback(); err == nil {
			fallback = g
		}
		defaultGenerator.gen = NewGenerator(NewSampler(NewSystemSource(), fallback))
	})
	return defaultGenerator.gen.Generate(req)
}

// Generate creates a password that holds at least one character from every
// selected class that survives ambiguous filtering.
func (g *Generator) Generate(req Request) (Password, error) {
	return g.generate(req.Classes(), req.Length, req.AvoidAmbiguous)
}

func (g *Generator) generate(classes []Class, length int, avoidAmbiguous bool) (Password, error) {
	if len(classes) == 0 {
		return Password{}, ErrNoCharacterTypes
	}

	pools, alphabet := buildPools(classes, avoidAmbiguous)
	if len(alphabet) == 0 {
		return Password{}, ErrNoCharactersAvailable
	}
	if length <= 0 {
		return Password{}, ErrLengthZero
	}
	if length < len(pools) {
		return Password{}, ErrLengthInsufficient
	}

	result := make([]byte, length)
	tier := TierSystem

	// Guarantee at least one character from each surviving pool.
	for i, pool := range pools {
		ch, t, err := g.pick(pool)
		if err != nil {
			return Password{}, err
		}
		result[i] = ch
		tier = Worse(tier, t)
	}

	for i := len(pools); i < length; i++ {
		ch, t, err := g.pick(alphabet)
		if err != nil {
			return Password{}, err
		}
		result[i] = ch
		tier = Worse(tier, t)
	}

	t, err := shuffle(result, g.sampler)
	if err != nil {
		return Password{}, err
	}

	return Password{Value: string(result), Tier: Worse(tier, t)}, nil
}

func (g *Generator) pick(charset string) (byte, Tier, error) {
	idx, tier, err := g.sampler.Uniform(uint32(len(charset)))
	if err != nil {
		return 0, tier, err
	}
	return charset[idx], tier, nil
}

// buildPools returns one pool per class, minus ambiguous characters when
// requested, and their concatenation. Pools left empty are dropped.
func buildPools(classes []Class, avoidAmbiguous bool) ([]string, string) {
	pools := make([]string, 0, len(classes))
	var alphabet strings.Builder

	for _, c := range classes {
		pool := c.Chars
		if avoidAmbiguous {
			pool = stripAmbiguous(pool)
		}
		if pool == "" {
			continue
		}
		pools = append(pools, pool)
		alphabet.WriteString(pool)
	}

	return pools, alphabet.String()
}

func stripAmbiguous(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(AmbiguousChars, r) {
			return -1
		}
		return r
	}, s)
}

// shuffle performs a Fisher-Yates shuffle, swapping each position from the
// end with a uniformly chosen position at or before it.
func shuffle(data []byte, s IntSampler) (Tier, error) {
	tier := TierSystem
	for i := len(data) - 1; i > 0; i-- {
		j, t, err := s.Uniform(uint32(i + 1))
		if err != nil {
			return tier, err
		}
		tier = Worse(tier, t)
		data[i], data[j] = data[j], data[i]
	}
	return tier, nil
}
