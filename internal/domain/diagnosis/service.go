package diagnosis

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "diagnosis").Logger()}
}

func (s *Service) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.repo.ListDiagnoses(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("error loading diagnoses")
		return nil, fmt.Errorf("load diagnoses: %w", err)
	}
	return entries, nil
}

// SetActive asks the records API to change the active flag of a diagnosis.
func (s *Service) SetActive(ctx context.Context, name string, active bool) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("diagnosis name is required")
	}
	if err := s.repo.SetDiagnosisActive(ctx, name, active); err != nil {
		s.logger.Error().Err(err).Str("diagnosis", name).Bool("active", active).
			Msg("failed to update diagnosis status")
		return fmt.Errorf("update diagnosis %q: %w", name, err)
	}
	return nil
}
