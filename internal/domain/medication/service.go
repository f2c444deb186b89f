package medication

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
	return &Service{repo: repo, logger: logger.With().Str("component", "medication").Logger()}
}

func (s *Service) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.repo.ListMedicationsInUse(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("error loading medications")
		return nil, fmt.Errorf("load medications: %w", err)
	}
	return entries, nil
}

// SetRegularUse asks the records API to change the regular-use flag. Callers
// apply the change locally only when this returns nil.
func (s *Service) SetRegularUse(ctx context.Context, name string, regular bool) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("medication name is required")
	}
	if err := s.repo.SetMedicationRegularUse(ctx, name, regular); err != nil {
		s.logger.Error().Err(err).Str("medication", name).Bool("regular_use", regular).
			Msg("failed to update medication status")
		return fmt.Errorf("update medication %q: %w", name, err)
	}
	return nil
}

// Add registers a medication in use, typically from a change event or a
// prescription in an encounter.
func (s *Service) Add(ctx context.Context, name string, regular bool) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("medication name is required")
	}
	if err := s.repo.AddMedication(ctx, name, regular); err != nil {
		s.logger.Error().Err(err).Str("medication", name).Msg("failed to add medication")
		return fmt.Errorf("add medication %q: %w", name, err)
	}
	return nil
}
