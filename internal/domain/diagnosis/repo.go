package diagnosis

import "context"

type Repository interface {
	ListDiagnoses(ctx context.Context) ([]Entry, error)
	SetDiagnosisActive(ctx context.Context, name string, active bool) error
}
