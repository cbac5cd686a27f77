package ports

import (
	"context"

	"github.com/pawhaven/canine-care/internal/core/domain"
)

// Filter narrows a GetAll call server-side. Zero values mean "no filter".
// Only the canine collection honors OwnerID; dependent collections honor
// CanineID; shared collections ignore both.
type Filter struct {
	OwnerID  string
	CanineID string
}

// Gateway is the remote table contract for one entity family. Implementations
// translate the in-memory record shape to the backend's row shape and issue
// single-table operations. The unconfigured implementation returns
// domain.ErrRemoteUnavailable from every call so the fallback path triggers
// deterministically.
type Gateway[T domain.Record[T]] interface {
	GetAll(ctx context.Context, f Filter) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, e T) (T, error)
	Update(ctx context.Context, id string, e T) (T, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Gateways bundles one gateway per entity family. Configured is false when no
// backend is reachable; the scoped loader then populates from seed data.
type Gateways struct {
	Configured bool

	Canines       Gateway[domain.CanineProfile]
	Nutrition     Gateway[domain.NutritionEntry]
	Training      Gateway[domain.TrainingLog]
	Appointments  Gateway[domain.Appointment]
	Media         Gateway[domain.MediaItem]
	Medical       Gateway[domain.MedicalRecord]
	Medications   Gateway[domain.MedicationEntry]
	Visits        Gateway[domain.VetVisit]
	Immunizations Gateway[domain.ImmunizationRecord]
	Allergies     Gateway[domain.CanineAllergy]
	Vets          Gateway[domain.VetProfile]
	Contacts      Gateway[domain.Contact]
}

// Unavailable is the gateway used when no backend is configured.
type Unavailable[T domain.Record[T]] struct{}

func (Unavailable[T]) GetAll(context.Context, Filter) ([]T, error) {
	return nil, domain.ErrRemoteUnavailable
}

func (Unavailable[T]) GetByID(context.Context, string) (T, error) {
	var zero T
	return zero, domain.ErrRemoteUnavailable
}

func (Unavailable[T]) Create(_ context.Context, _ T) (T, error) {
	var zero T
	return zero, domain.ErrRemoteUnavailable
}

func (Unavailable[T]) Update(_ context.Context, _ string, _ T) (T, error) {
	var zero T
	return zero, domain.ErrRemoteUnavailable
}

func (Unavailable[T]) Delete(context.Context, string) (bool, error) {
	return false, domain.ErrRemoteUnavailable
}

// UnconfiguredGateways returns a gateway set whose every operation fails with
// domain.ErrRemoteUnavailable.
func UnconfiguredGateways() Gateways {
	return Gateways{
		Configured:    false,
		Canines:       Unavailable[domain.CanineProfile]{},
		Nutrition:     Unavailable[domain.NutritionEntry]{},
		Training:      Unavailable[domain.TrainingLog]{},
		Appointments:  Unavailable[domain.Appointment]{},
		Media:         Unavailable[domain.MediaItem]{},
		Medical:       Unavailable[domain.MedicalRecord]{},
		Medications:   Unavailable[domain.MedicationEntry]{},
		Visits:        Unavailable[domain.VetVisit]{},
		Immunizations: Unavailable[domain.ImmunizationRecord]{},
		Allergies:     Unavailable[domain.CanineAllergy]{},
		Vets:          Unavailable[domain.VetProfile]{},
		Contacts:      Unavailable[domain.Contact]{},
	}
}
