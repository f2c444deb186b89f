package timeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "timeline").Logger()}
}

// Load fetches every encounter and returns them as a sorted Timeline.
func (s *Service) Load(ctx context.Context) (*Timeline, error) {
	records, err := s.repo.ListEncounters(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("error loading timeline")
		return nil, fmt.Errorf("load timeline: %w", err)
	}
	s.logger.Debug().Int("encounters", len(records)).Msg("timeline loaded")
	return New(records), nil
}
