package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vaultpass/pwgen-go/internal/crypto"
	"github.com/vaultpass/pwgen-go/internal/model"
)

var ErrLengthTooLong = errors.New("password length exceeds the configured maximum")

// AuditRecorder stores generation events.
type AuditRecorder interface {
	Record(ctx context.Context, event *model.GenerationEvent) error
}

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	generator     *crypto.Generator
	audit         AuditRecorder
	defaultLength int
	maxLength     int
}

// NewGeneratorService creates a new GeneratorService. audit may be nil.
func NewGeneratorService(gen *crypto.Generator, defaultLength, maxLength int, audit AuditRecorder) *GeneratorService {
	return &GeneratorService{
		generator:     gen,
		audit:         audit,
		defaultLength: defaultLength,
		maxLength:     maxLength,
	}
}

// Generate produces a password based on the given request on behalf of client.
func (s *GeneratorService) Generate(ctx context.Context, client string, req model.GenerateRequest) (model.GenerateResponse, error) {
	defaults := crypto.DefaultRequest()
	opts := crypto.Request{
		Length:         req.Length,
		Lowercase:      boolOrDefault(req.Lowercase, defaults.Lowercase),
		Uppercase:      boolOrDefault(req.Uppercase, defaults.Uppercase),
		Digits:         boolOrDefault(req.Numbers, defaults.Digits),
		Symbols:        boolOrDefault(req.Symbols, defaults.Symbols),
		AvoidAmbiguous: boolOrDefault(req.AvoidAmbiguous, defaults.AvoidAmbiguous),
	}

	if opts.Length == 0 {
		opts.Length = s.defaultLength
	}
	if s.maxLength > 0 && opts.Length > s.maxLength {
		return model.GenerateResponse{}, fmt.Errorf("%w: %d > %d", ErrLengthTooLong, opts.Length, s.maxLength)
	}

	password, err := s.generator.Generate(opts)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	if password.Tier == crypto.TierFallback {
		slog.Warn("system entropy unavailable, password generated from fallback generator",
			"client", client, "length", opts.Length)
	}

	s.record(ctx, client, opts, password.Tier)

	return model.GenerateResponse{
		Password: password.Value,
		Length:   len(password.Value),
		Entropy:  password.Tier.String(),
	}, nil
}

// record writes an audit event. Failures are logged and do not fail the request.
func (s *GeneratorService) record(ctx context.Context, client string, opts crypto.Request, tier crypto.Tier) {
	if s.audit == nil {
		return
	}

	names := make([]string, 0, 4)
	for _, c := range opts.Classes() {
		names = append(names, c.Name)
	}

	event := &model.GenerationEvent{
		Client:         client,
		Length:         opts.Length,
		Classes:        strings.Join(names, ","),
		AvoidAmbiguous: opts.AvoidAmbiguous,
		EntropyTier:    tier.String(),
	}

	if err := s.audit.Record(ctx, event); err != nil {
		slog.Warn("recording generation event failed", "client", client, "error", err)
	}
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
