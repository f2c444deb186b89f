package medication

import "context"

type Repository interface {
	ListMedicationsInUse(ctx context.Context) ([]Entry, error)
	SetMedicationRegularUse(ctx context.Context, name string, regular bool) error
	AddMedication(ctx context.Context, name string, regular bool) error
}
