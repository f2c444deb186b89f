package changes

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
	return &Service{repo: repo, logger: logger.With().Str("component", "changes").Logger()}
}

// Logger is used by callers resolving links so warnings carry the component.
func (s *Service) Logger() zerolog.Logger {
	return s.logger
}

func (s *Service) Load(ctx context.Context) (Set, error) {
	set, err := s.repo.ListChanges(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("error loading changes")
		return Set{}, fmt.Errorf("load changes: %w", err)
	}
	if set == nil {
		return Set{}, nil
	}
	return *set, nil
}
