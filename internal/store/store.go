package store

import "github.com/pawhaven/canine-care/internal/core/domain"

// Store aggregates one collection per entity family. A store instance's
// lifecycle is tied to the authenticated session: the scoped loader fully
// repopulates it on every actor change.
type Store struct {
	Canines       *Collection[domain.CanineProfile]
	Nutrition     *Collection[domain.NutritionEntry]
	Training      *Collection[domain.TrainingLog]
	Appointments  *Collection[domain.Appointment]
	Media         *Collection[domain.MediaItem]
	Medical       *Collection[domain.MedicalRecord]
	Medications   *Collection[domain.MedicationEntry]
	Visits        *Collection[domain.VetVisit]
	Immunizations *Collection[domain.ImmunizationRecord]
	Allergies     *Collection[domain.CanineAllergy]
	Vets          *Collection[domain.VetProfile]
	Contacts      *Collection[domain.Contact]
}

func New() *Store {
	return &Store{
		Canines:       NewCollection[domain.CanineProfile](),
		Nutrition:     NewCollection[domain.NutritionEntry](),
		Training:      NewCollection[domain.TrainingLog](),
		Appointments:  NewCollection[domain.Appointment](),
		Media:         NewCollection[domain.MediaItem](),
		Medical:       NewCollection[domain.MedicalRecord](),
		Medications:   NewCollection[domain.MedicationEntry](),
		Visits:        NewCollection[domain.VetVisit](),
		Immunizations: NewCollection[domain.ImmunizationRecord](),
		Allergies:     NewCollection[domain.CanineAllergy](),
		Vets:          NewCollection[domain.VetProfile](),
		Contacts:      NewCollection[domain.Contact](),
	}
}

// DependentCollection is the family-agnostic view the cascade coordinator
// uses to sweep dependents of a deleted canine.
type DependentCollection interface {
	Kind() string
	RemoveByParent(parentID string) []string
}

// DependentCollections returns the nine canine-scoped collections.
func (s *Store) DependentCollections() []DependentCollection {
	return []DependentCollection{
		s.Nutrition,
		s.Training,
		s.Appointments,
		s.Media,
		s.Medical,
		s.Medications,
		s.Visits,
		s.Immunizations,
		s.Allergies,
	}
}

// Reset empties every collection. Used on logout.
func (s *Store) Reset() {
	s.Canines.ReplaceAll(nil)
	s.Nutrition.ReplaceAll(nil)
	s.Training.ReplaceAll(nil)
	s.Appointments.ReplaceAll(nil)
	s.Media.ReplaceAll(nil)
	s.Medical.ReplaceAll(nil)
	s.Medications.ReplaceAll(nil)
	s.Visits.ReplaceAll(nil)
	s.Immunizations.ReplaceAll(nil)
	s.Allergies.ReplaceAll(nil)
	s.Vets.ReplaceAll(nil)
	s.Contacts.ReplaceAll(nil)
}
