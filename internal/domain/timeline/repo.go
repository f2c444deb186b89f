package timeline

import "context"

// Repository is the source of encounter records.
type Repository interface {
	ListEncounters(ctx context.Context) ([]EncounterRecord, error)
}
