package service

import (
	"context"
	"errors"
	"time"

	"github.com/vaultpass/pwgen-go/internal/crypto"
	"github.com/vaultpass/pwgen-go/internal/model"
)

var ErrAuditDisabled = errors.New("audit log is not configured")

// TierCounter counts generation events per entropy tier.
type TierCounter interface {
	CountByTier(ctx context.Context, since time.Time) (map[string]int64, error)
}

// StatsService reports entropy tier usage from the audit log.
type StatsService struct {
	counter TierCounter
}

// NewStatsService creates a new StatsService. counter may be nil.
func NewStatsService(counter TierCounter) *StatsService {
	return &StatsService{counter: counter}
}

// EntropyStats returns per-tier counts since the given time. Both tiers are
// always present in the result.
func (s *StatsService) EntropyStats(ctx context.Context, since time.Time) (model.EntropyStatsResponse, error) {
	if s.counter == nil {
		return model.EntropyStatsResponse{}, ErrAuditDisabled
	}

	counts, err := s.counter.CountByTier(ctx, since)
	if err != nil {
		return model.EntropyStatsResponse{}, err
	}

	result := map[string]int64{
		crypto.TierSystem.String():   0,
		crypto.TierFallback.String(): 0,
	}
	for tier, n := range counts {
		result[tier] = n
	}

	return model.EntropyStatsResponse{
		Since:  since.UTC(),
		Counts: result,
	}, nil
}
