package service

import (
	"context"
	"testing"

	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/ports"
	"github.com/pawhaven/canine-care/internal/seed"
	"github.com/pawhaven/canine-care/internal/store"
)

// stubGateways bundles one inspectable stub per family.
type stubGateways struct {
	canines       *stubGateway[domain.CanineProfile]
	nutrition     *stubGateway[domain.NutritionEntry]
	training      *stubGateway[domain.TrainingLog]
	appointments  *stubGateway[domain.Appointment]
	media         *stubGateway[domain.MediaItem]
	medical       *stubGateway[domain.MedicalRecord]
	medications   *stubGateway[domain.MedicationEntry]
	visits        *stubGateway[domain.VetVisit]
	immunizations *stubGateway[domain.ImmunizationRecord]
	allergies     *stubGateway[domain.CanineAllergy]
	vets          *stubGateway[domain.VetProfile]
	contacts      *stubGateway[domain.Contact]
}

func newStubGateways() (*stubGateways, ports.Gateways) {
	s := &stubGateways{
		canines:       newStubGateway[domain.CanineProfile](),
		nutrition:     newStubGateway[domain.NutritionEntry](),
		training:      newStubGateway[domain.TrainingLog](),
		appointments:  newStubGateway[domain.Appointment](),
		media:         newStubGateway[domain.MediaItem](),
		medical:       newStubGateway[domain.MedicalRecord](),
		medications:   newStubGateway[domain.MedicationEntry](),
		visits:        newStubGateway[domain.VetVisit](),
		immunizations: newStubGateway[domain.ImmunizationRecord](),
		allergies:     newStubGateway[domain.CanineAllergy](),
		vets:          newStubGateway[domain.VetProfile](),
		contacts:      newStubGateway[domain.Contact](),
	}
	return s, ports.Gateways{
		Configured:    true,
		Canines:       s.canines,
		Nutrition:     s.nutrition,
		Training:      s.training,
		Appointments:  s.appointments,
		Media:         s.media,
		Medical:       s.medical,
		Medications:   s.medications,
		Visits:        s.visits,
		Immunizations: s.immunizations,
		Allergies:     s.allergies,
		Vets:          s.vets,
		Contacts:      s.contacts,
	}
}

func seedRemote(s *stubGateways) {
	data := seed.Generate()
	for _, e := range data.Canines {
		s.canines.rows[e.ID] = e
	}
	for _, e := range data.Nutrition {
		s.nutrition.rows[e.ID] = e
	}
	for _, e := range data.Training {
		s.training.rows[e.ID] = e
	}
	for _, e := range data.Appointments {
		s.appointments.rows[e.ID] = e
	}
	for _, e := range data.Visits {
		s.visits.rows[e.ID] = e
	}
	for _, e := range data.Vets {
		s.vets.rows[e.ID] = e
	}
	for _, e := range data.Contacts {
		s.contacts.rows[e.ID] = e
	}
}

var (
	adminActor = &domain.Owner{ID: "owner-admin", Username: "admin", Role: domain.RoleAdministrator}
	anaActor   = &domain.Owner{ID: "owner-ana", Username: "ana", Role: domain.RoleOwner}
	brunoActor = &domain.Owner{ID: "owner-bruno", Username: "bruno", Role: domain.RoleOwner}
)

// ---------------------------------------------------------------------------
// Seed mode (no backend configured)
// ---------------------------------------------------------------------------

func TestLoader_SeedMode_AdminSeesEverything(t *testing.T) {
	st := store.New()
	l := NewLoader(st, ports.UnconfiguredGateways(), nopLogger)

	if err := l.Load(context.Background(), adminActor); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	data := seed.Generate()
	if st.Canines.Len() != len(data.Canines) {
		t.Errorf("admin canines: want %d, got %d", len(data.Canines), st.Canines.Len())
	}
	if st.Nutrition.Len() != len(data.Nutrition) {
		t.Errorf("admin nutrition: want %d, got %d", len(data.Nutrition), st.Nutrition.Len())
	}
	if st.Vets.Len() != len(data.Vets) {
		t.Errorf("admin vets: want %d, got %d", len(data.Vets), st.Vets.Len())
	}
}

func TestLoader_SeedMode_OwnerScoped(t *testing.T) {
	st := store.New()
	l := NewLoader(st, ports.UnconfiguredGateways(), nopLogger)

	if err := l.Load(context.Background(), anaActor); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	for _, c := range st.Canines.List() {
		if c.OwnerID != anaActor.ID {
			t.Errorf("owner must only see own canines, saw %s of %s", c.ID, c.OwnerID)
		}
	}
	if st.Canines.Len() == 0 {
		t.Fatal("ana owns canines in the seed dataset")
	}

	owned := make(map[string]struct{})
	for _, c := range st.Canines.List() {
		owned[c.ID] = struct{}{}
	}
	for _, e := range st.Nutrition.List() {
		if _, ok := owned[e.CanineID]; !ok {
			t.Errorf("nutrition %s leaks another owner's canine %s", e.ID, e.CanineID)
		}
	}
	for _, e := range st.Visits.List() {
		if _, ok := owned[e.CanineID]; !ok {
			t.Errorf("visit %s leaks another owner's canine %s", e.ID, e.CanineID)
		}
	}

	// Shared records stay visible regardless of scope.
	if st.Vets.Len() == 0 || st.Contacts.Len() == 0 {
		t.Error("shared records must be visible to every owner")
	}
}

func TestLoader_SeedMode_OwnersSeeDifferentSlices(t *testing.T) {
	st := store.New()
	l := NewLoader(st, ports.UnconfiguredGateways(), nopLogger)

	_ = l.Load(context.Background(), anaActor)
	anaCanines := st.Canines.Len()

	_ = l.Load(context.Background(), brunoActor)
	brunoCanines := st.Canines.Len()

	if anaCanines == 0 || brunoCanines == 0 {
		t.Fatal("both owners own canines in the seed dataset")
	}
	for _, c := range st.Canines.List() {
		if c.OwnerID != brunoActor.ID {
			t.Errorf("previous actor's canine %s survived the reload", c.ID)
		}
	}
}

func TestLoader_NilActorClearsStore(t *testing.T) {
	st := store.New()
	l := NewLoader(st, ports.UnconfiguredGateways(), nopLogger)

	_ = l.Load(context.Background(), adminActor)
	if st.Canines.Len() == 0 {
		t.Fatal("precondition: store populated")
	}

	if err := l.Load(context.Background(), nil); err != nil {
		t.Fatalf("clearing load failed: %v", err)
	}
	if st.Canines.Len() != 0 || st.Nutrition.Len() != 0 || st.Vets.Len() != 0 {
		t.Error("nil actor must clear every collection")
	}
}

// ---------------------------------------------------------------------------
// Remote mode
// ---------------------------------------------------------------------------

func TestLoader_RemoteMode_OwnerFilterPushedToCanineGateway(t *testing.T) {
	stubs, gws := newStubGateways()
	seedRemote(stubs)
	st := store.New()
	l := NewLoader(st, gws, nopLogger)

	if err := l.Load(context.Background(), anaActor); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if stubs.canines.lastFilter.OwnerID != anaActor.ID {
		t.Errorf("canine fetch must be server-side filtered, got filter %+v", stubs.canines.lastFilter)
	}
	for _, c := range st.Canines.List() {
		if c.OwnerID != anaActor.ID {
			t.Errorf("unexpected canine %s for owner %s", c.ID, c.OwnerID)
		}
	}
	// Dependent rows of other owners' canines are narrowed out locally.
	for _, v := range st.Visits.List() {
		if v.CanineID == "canine-toby" {
			t.Error("bruno's visit leaked into ana's store")
		}
	}
}

func TestLoader_RemoteMode_AdminUnfiltered(t *testing.T) {
	stubs, gws := newStubGateways()
	seedRemote(stubs)
	st := store.New()
	l := NewLoader(st, gws, nopLogger)

	if err := l.Load(context.Background(), adminActor); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if stubs.canines.lastFilter.OwnerID != "" {
		t.Errorf("admin fetch must not filter, got %+v", stubs.canines.lastFilter)
	}
	if st.Canines.Len() != 3 {
		t.Errorf("admin must see all 3 canines, got %d", st.Canines.Len())
	}
}

func TestLoader_RemoteMode_FetchErrorLoadsEmptyNotStale(t *testing.T) {
	stubs, gws := newStubGateways()
	seedRemote(stubs)
	st := store.New()
	l := NewLoader(st, gws, nopLogger)

	// First load succeeds and populates.
	_ = l.Load(context.Background(), adminActor)
	if st.Nutrition.Len() == 0 {
		t.Fatal("precondition: nutrition populated")
	}

	// Second load hits a failing nutrition table: the collection must come
	// back empty, never carry the previous snapshot.
	stubs.nutrition.getAllErr = domain.ErrRemoteUnavailable
	if err := l.Load(context.Background(), adminActor); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if st.Nutrition.Len() != 0 {
		t.Errorf("failed fetch must load empty, got %d stale rows", st.Nutrition.Len())
	}
	if st.Canines.Len() != 3 {
		t.Errorf("healthy tables must still load, got %d canines", st.Canines.Len())
	}
}

func TestLoader_StaleLoadDiscarded(t *testing.T) {
	stubs, gws := newStubGateways()
	seedRemote(stubs)
	st := store.New()
	l := NewLoader(st, gws, nopLogger)

	// While the admin load is mid-fetch, a newer load for ana starts and
	// finishes. The admin snapshot resolves later but must not commit.
	stubs.canines.getAllHook = func() {
		if err := l.Load(context.Background(), anaActor); err != nil {
			t.Errorf("nested load failed: %v", err)
		}
	}

	if err := l.Load(context.Background(), adminActor); err != nil {
		t.Fatalf("outer load failed: %v", err)
	}

	for _, c := range st.Canines.List() {
		if c.OwnerID != anaActor.ID {
			t.Errorf("stale admin snapshot overwrote the newer load: saw %s", c.ID)
		}
	}
	if st.Canines.Len() == 0 {
		t.Error("the newer load's snapshot must survive")
	}
}
