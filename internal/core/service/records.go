package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pawhaven/canine-care/internal/api/metrics"
	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/ports"
	"github.com/pawhaven/canine-care/internal/store"
)

// RecordsService is the mutation surface for every record family. All writes
// run through the fallback mutators, so from the caller's perspective they
// always succeed unless validation or authorization rejects them up front.
type RecordsService struct {
	store *store.Store
	gw    ports.Gateways
	retry RetryQueue
	log   zerolog.Logger

	canines *mutator[domain.CanineProfile]

	Nutrition     *Family[domain.NutritionEntry]
	Training      *Family[domain.TrainingLog]
	Appointments  *Family[domain.Appointment]
	Media         *Family[domain.MediaItem]
	Medical       *Family[domain.MedicalRecord]
	Medications   *Family[domain.MedicationEntry]
	Visits        *Family[domain.VetVisit]
	Immunizations *Family[domain.ImmunizationRecord]
	Allergies     *Family[domain.CanineAllergy]

	Vets     *SharedFamily[domain.VetProfile]
	Contacts *SharedFamily[domain.Contact]
}

func NewRecordsService(st *store.Store, gw ports.Gateways, retry RetryQueue, log zerolog.Logger) *RecordsService {
	s := &RecordsService{
		store:   st,
		gw:      gw,
		retry:   retry,
		log:     log,
		canines: newMutator[domain.CanineProfile](gw.Canines, st.Canines, retry, log),

		Nutrition:     newFamily[domain.NutritionEntry](gw.Nutrition, st.Nutrition, st.Canines, retry, log),
		Training:      newFamily[domain.TrainingLog](gw.Training, st.Training, st.Canines, retry, log),
		Appointments:  newFamily[domain.Appointment](gw.Appointments, st.Appointments, st.Canines, retry, log),
		Media:         newFamily[domain.MediaItem](gw.Media, st.Media, st.Canines, retry, log),
		Medical:       newFamily[domain.MedicalRecord](gw.Medical, st.Medical, st.Canines, retry, log),
		Medications:   newFamily[domain.MedicationEntry](gw.Medications, st.Medications, st.Canines, retry, log),
		Visits:        newFamily[domain.VetVisit](gw.Visits, st.Visits, st.Canines, retry, log),
		Immunizations: newFamily[domain.ImmunizationRecord](gw.Immunizations, st.Immunizations, st.Canines, retry, log),
		Allergies:     newFamily[domain.CanineAllergy](gw.Allergies, st.Allergies, st.Canines, retry, log),

		Vets:     newSharedFamily[domain.VetProfile](gw.Vets, st.Vets, retry, log),
		Contacts: newSharedFamily[domain.Contact](gw.Contacts, st.Contacts, retry, log),
	}
	s.Vets.afterDelete = s.clearVetReferences
	return s
}

// ── Canine profiles ──────────────────────────────────────────────────────────

// ListCanines returns the profiles visible to the actor.
func (s *RecordsService) ListCanines(actor *domain.Owner) []domain.CanineProfile {
	if actor == nil || actor.IsAdmin() {
		return s.store.Canines.List()
	}
	return s.store.Canines.ByParent(actor.ID)
}

// GetCanine returns one visible profile.
func (s *RecordsService) GetCanine(actor *domain.Owner, id string) (domain.CanineProfile, error) {
	c, ok := s.store.Canines.Get(id)
	if !ok {
		return domain.CanineProfile{}, domain.ErrNotFound
	}
	if actor != nil && !actor.IsAdmin() && c.OwnerID != actor.ID {
		return domain.CanineProfile{}, domain.ErrForbidden
	}
	return c, nil
}

// CreateCanine stores a new profile owned by the actor. Administrators may
// create profiles on behalf of another owner by presetting OwnerID.
func (s *RecordsService) CreateCanine(ctx context.Context, actor *domain.Owner, c domain.CanineProfile) (domain.CanineProfile, error) {
	if actor != nil && (!actor.IsAdmin() || c.OwnerID == "") {
		c.OwnerID = actor.ID
	}
	if c.OwnerID == "" {
		return domain.CanineProfile{}, fmt.Errorf("%w: owner_id is required", domain.ErrValidation)
	}
	return s.canines.create(ctx, c), nil
}

// UpdateCanine patches a visible profile.
func (s *RecordsService) UpdateCanine(ctx context.Context, actor *domain.Owner, id string, patch func(domain.CanineProfile) domain.CanineProfile) (domain.CanineProfile, error) {
	current, err := s.GetCanine(actor, id)
	if err != nil {
		return domain.CanineProfile{}, err
	}
	patched := patch(current)
	if patched.OwnerID != current.OwnerID && (actor == nil || !actor.IsAdmin()) {
		return domain.CanineProfile{}, fmt.Errorf("%w: owner_id cannot change", domain.ErrValidation)
	}
	return s.canines.update(ctx, id, patched)
}

// AddCanineNote appends a note to the profile's note list.
func (s *RecordsService) AddCanineNote(ctx context.Context, actor *domain.Owner, canineID, text string) (domain.CanineProfile, error) {
	if text == "" {
		return domain.CanineProfile{}, fmt.Errorf("%w: note text is required", domain.ErrValidation)
	}
	return s.UpdateCanine(ctx, actor, canineID, func(c domain.CanineProfile) domain.CanineProfile {
		c.Notes = append(c.Notes, domain.Note{
			ID:        fmt.Sprintf("note-%d", len(c.Notes)+1),
			Text:      text,
			CreatedAt: s.canines.now(),
		})
		return c
	})
}

// DeleteCanine removes the profile and cascades across every dependent
// family. After it returns no accessor can observe a dependent of the
// deleted canine.
func (s *RecordsService) DeleteCanine(ctx context.Context, actor *domain.Owner, id string) error {
	c, ok := s.store.Canines.Get(id)
	if !ok {
		return nil
	}
	if actor != nil && !actor.IsAdmin() && c.OwnerID != actor.ID {
		return domain.ErrForbidden
	}

	s.canines.delete(ctx, id)
	s.cascadeCanine(ctx, id)
	return nil
}

// ── Cascade coordination ─────────────────────────────────────────────────────

// cascadeCanine sweeps all dependent collections locally and propagates the
// deletes to the remote backend best-effort. Remote failures are queued for
// reconciliation; local visibility is settled either way.
func (s *RecordsService) cascadeCanine(ctx context.Context, canineID string) {
	deleters := map[string]func(context.Context, string) (bool, error){
		s.store.Nutrition.Kind():     s.gw.Nutrition.Delete,
		s.store.Training.Kind():      s.gw.Training.Delete,
		s.store.Appointments.Kind():  s.gw.Appointments.Delete,
		s.store.Media.Kind():         s.gw.Media.Delete,
		s.store.Medical.Kind():       s.gw.Medical.Delete,
		s.store.Medications.Kind():   s.gw.Medications.Delete,
		s.store.Visits.Kind():        s.gw.Visits.Delete,
		s.store.Immunizations.Kind(): s.gw.Immunizations.Delete,
		s.store.Allergies.Kind():     s.gw.Allergies.Delete,
	}

	for _, col := range s.store.DependentCollections() {
		kind := col.Kind()
		removed := col.RemoveByParent(canineID)
		if len(removed) == 0 {
			continue
		}
		metrics.CascadeRemovalsTotal.WithLabelValues(kind).Add(float64(len(removed)))

		del := deleters[kind]
		for _, id := range removed {
			if _, err := del(ctx, id); err != nil {
				s.log.Warn().Err(err).Str("kind", kind).Str("id", id).Msg("remote cascade delete failed")
				s.enqueueRemoteDelete(kind, id, del)
			}
		}
	}

	s.log.Info().Str("canine_id", canineID).Msg("cascade completed")
}

func (s *RecordsService) enqueueRemoteDelete(kind, id string, del func(context.Context, string) (bool, error)) {
	if s.retry == nil {
		return
	}
	s.retry.EnqueueRetry(kind, id, "delete", func(ctx context.Context) error {
		_, err := del(ctx, id)
		return err
	})
}

// clearVetReferences blanks VetID on appointments and visits pointing at a
// deleted vet profile. References are cleared, never cascaded.
func (s *RecordsService) clearVetReferences(ctx context.Context, vetID string) {
	for _, a := range s.store.Appointments.List() {
		if a.VetID != vetID {
			continue
		}
		id := a.ID
		a.VetID = ""
		if _, err := s.Appointments.mut.update(ctx, id, a); err != nil {
			s.log.Warn().Err(err).Str("id", id).Msg("failed to clear vet reference on appointment")
		}
	}
	for _, v := range s.store.Visits.List() {
		if v.VetID != vetID {
			continue
		}
		id := v.ID
		v.VetID = ""
		if _, err := s.Visits.mut.update(ctx, id, v); err != nil {
			s.log.Warn().Err(err).Str("id", id).Msg("failed to clear vet reference on visit")
		}
	}
}
