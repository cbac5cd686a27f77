package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/pawhaven/canine-care/internal/api/metrics"
	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/ports"
	"github.com/pawhaven/canine-care/internal/seed"
	"github.com/pawhaven/canine-care/internal/store"
)

// Loader populates the entity store for the current actor. It runs on login,
// logout, and session restore, and always fully replaces every collection:
// nothing from a previous actor's session survives a load.
//
// Loads are tagged with a generation number. A load that finishes after a
// newer one has started commits nothing, so a rapid actor switch can never
// write stale data into the store.
type Loader struct {
	store *store.Store
	gw    ports.Gateways
	log   zerolog.Logger

	generation atomic.Uint64
	commitMu   sync.Mutex
}

func NewLoader(st *store.Store, gw ports.Gateways, log zerolog.Logger) *Loader {
	return &Loader{store: st, gw: gw, log: log}
}

// snapshot is a fully assembled replacement for the store's collections.
type snapshot struct {
	canines       []domain.CanineProfile
	nutrition     []domain.NutritionEntry
	training      []domain.TrainingLog
	appointments  []domain.Appointment
	media         []domain.MediaItem
	medical       []domain.MedicalRecord
	medications   []domain.MedicationEntry
	visits        []domain.VetVisit
	immunizations []domain.ImmunizationRecord
	allergies     []domain.CanineAllergy
	vets          []domain.VetProfile
	contacts      []domain.Contact
}

// Load populates the store for the given actor. A nil actor clears it.
func (l *Loader) Load(ctx context.Context, actor *domain.Owner) error {
	gen := l.generation.Add(1)

	var (
		snap snapshot
		mode string
	)
	switch {
	case actor == nil:
		mode = "cleared"
	case !l.gw.Configured:
		snap = l.seedSnapshot(actor)
		mode = "seed"
	default:
		snap = l.remoteSnapshot(ctx, actor)
		mode = "remote"
	}

	l.commitMu.Lock()
	defer l.commitMu.Unlock()
	if gen != l.generation.Load() {
		l.log.Debug().Uint64("generation", gen).Msg("discarding stale load")
		return nil
	}

	l.store.Canines.ReplaceAll(snap.canines)
	l.store.Nutrition.ReplaceAll(snap.nutrition)
	l.store.Training.ReplaceAll(snap.training)
	l.store.Appointments.ReplaceAll(snap.appointments)
	l.store.Media.ReplaceAll(snap.media)
	l.store.Medical.ReplaceAll(snap.medical)
	l.store.Medications.ReplaceAll(snap.medications)
	l.store.Visits.ReplaceAll(snap.visits)
	l.store.Immunizations.ReplaceAll(snap.immunizations)
	l.store.Allergies.ReplaceAll(snap.allergies)
	l.store.Vets.ReplaceAll(snap.vets)
	l.store.Contacts.ReplaceAll(snap.contacts)

	metrics.StoreLoadsTotal.WithLabelValues(mode).Inc()
	l.log.Info().Str("mode", mode).Int("canines", len(snap.canines)).Msg("store loaded")
	return nil
}

// remoteSnapshot mirrors the backend. Administrators get unrestricted reads;
// owners get their canines server-side filtered and every dependent family
// fetched unfiltered, then narrowed to the owned canine set locally. Shared
// records are visible to everyone. A failed fetch leaves the affected
// collection empty, never in the previous actor's state.
func (l *Loader) remoteSnapshot(ctx context.Context, actor *domain.Owner) snapshot {
	canineFilter := ports.Filter{}
	if !actor.IsAdmin() {
		canineFilter.OwnerID = actor.ID
	}

	var snap snapshot
	snap.canines = fetchAll(ctx, l.gw.Canines, canineFilter, l.log)

	var owned map[string]struct{}
	if !actor.IsAdmin() {
		owned = make(map[string]struct{}, len(snap.canines))
		for _, c := range snap.canines {
			owned[c.ID] = struct{}{}
		}
	}

	snap.nutrition = scopeToParents(fetchAll(ctx, l.gw.Nutrition, ports.Filter{}, l.log), owned)
	snap.training = scopeToParents(fetchAll(ctx, l.gw.Training, ports.Filter{}, l.log), owned)
	snap.appointments = scopeToParents(fetchAll(ctx, l.gw.Appointments, ports.Filter{}, l.log), owned)
	snap.media = scopeToParents(fetchAll(ctx, l.gw.Media, ports.Filter{}, l.log), owned)
	snap.medical = scopeToParents(fetchAll(ctx, l.gw.Medical, ports.Filter{}, l.log), owned)
	snap.medications = scopeToParents(fetchAll(ctx, l.gw.Medications, ports.Filter{}, l.log), owned)
	snap.visits = scopeToParents(fetchAll(ctx, l.gw.Visits, ports.Filter{}, l.log), owned)
	snap.immunizations = scopeToParents(fetchAll(ctx, l.gw.Immunizations, ports.Filter{}, l.log), owned)
	snap.allergies = scopeToParents(fetchAll(ctx, l.gw.Allergies, ports.Filter{}, l.log), owned)

	snap.vets = fetchAll(ctx, l.gw.Vets, ports.Filter{}, l.log)
	snap.contacts = fetchAll(ctx, l.gw.Contacts, ports.Filter{}, l.log)
	return snap
}

// seedSnapshot regenerates the deterministic fallback dataset, scoped the
// same way the remote path is.
func (l *Loader) seedSnapshot(actor *domain.Owner) snapshot {
	data := seed.Generate()

	var owned map[string]struct{}
	canines := data.Canines
	if !actor.IsAdmin() {
		canines = make([]domain.CanineProfile, 0)
		owned = make(map[string]struct{})
		for _, c := range data.Canines {
			if c.OwnerID == actor.ID {
				canines = append(canines, c)
				owned[c.ID] = struct{}{}
			}
		}
	}

	return snapshot{
		canines:       canines,
		nutrition:     scopeToParents(data.Nutrition, owned),
		training:      scopeToParents(data.Training, owned),
		appointments:  scopeToParents(data.Appointments, owned),
		media:         scopeToParents(data.Media, owned),
		medical:       scopeToParents(data.Medical, owned),
		medications:   scopeToParents(data.Medications, owned),
		visits:        scopeToParents(data.Visits, owned),
		immunizations: scopeToParents(data.Immunizations, owned),
		allergies:     scopeToParents(data.Allergies, owned),
		vets:          data.Vets,
		contacts:      data.Contacts,
	}
}

// fetchAll wraps a gateway read; on error the collection loads empty.
func fetchAll[T domain.Record[T]](ctx context.Context, g ports.Gateway[T], f ports.Filter, log zerolog.Logger) []T {
	var zero T
	rows, err := g.GetAll(ctx, f)
	if err != nil {
		log.Warn().Err(err).Str("kind", zero.Kind()).Msg("fetch failed, loading empty collection")
		return []T{}
	}
	return rows
}

// scopeToParents narrows rows to those whose parent is in the allowed set.
// A nil set means unrestricted (administrator).
func scopeToParents[T domain.Record[T]](rows []T, allowed map[string]struct{}) []T {
	if allowed == nil {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, e := range rows {
		if _, ok := allowed[e.ParentID()]; ok {
			out = append(out, e)
		}
	}
	return out
}
