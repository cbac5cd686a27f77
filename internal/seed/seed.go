// Package seed produces the deterministic fallback dataset used when no
// remote backend is configured. Every cross-reference in the dataset points
// at a record that exists in the same dataset.
package seed

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pawhaven/canine-care/internal/core/domain"
)

// DemoPassword is the password every seeded owner accepts in demo mode.
const DemoPassword = "pawhaven"

var baseTime = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

// Dataset is a fully cross-referenced snapshot of every entity family.
type Dataset struct {
	Owners        []domain.Owner
	Canines       []domain.CanineProfile
	Nutrition     []domain.NutritionEntry
	Training      []domain.TrainingLog
	Appointments  []domain.Appointment
	Media         []domain.MediaItem
	Medical       []domain.MedicalRecord
	Medications   []domain.MedicationEntry
	Visits        []domain.VetVisit
	Immunizations []domain.ImmunizationRecord
	Allergies     []domain.CanineAllergy
	Vets          []domain.VetProfile
	Contacts      []domain.Contact
}

func meta(id string, dayOffset int) domain.RecordMeta {
	ts := baseTime.AddDate(0, 0, dayOffset)
	return domain.RecordMeta{ID: id, CreatedAt: ts, UpdatedAt: ts, SyncState: domain.SyncStateSynced}
}

func ptrTime(t time.Time) *time.Time { return &t }

// Generate builds the seed dataset. Identifiers and timestamps are fixed so
// repeated loads produce identical snapshots.
func Generate() Dataset {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		// bcrypt only fails on invalid cost; MinCost is always valid.
		panic(err)
	}

	owners := []domain.Owner{
		{ID: "owner-admin", Username: "admin", Email: "admin@pawhaven.dev", PasswordHash: string(hash), Role: domain.RoleAdministrator, CreatedAt: baseTime, UpdatedAt: baseTime},
		{ID: "owner-ana", Username: "ana", Email: "ana@pawhaven.dev", PasswordHash: string(hash), Role: domain.RoleOwner, CreatedAt: baseTime, UpdatedAt: baseTime},
		{ID: "owner-bruno", Username: "bruno", Email: "bruno@pawhaven.dev", PasswordHash: string(hash), Role: domain.RoleOwner, CreatedAt: baseTime, UpdatedAt: baseTime},
	}

	canines := []domain.CanineProfile{
		{RecordMeta: meta("canine-rex", 0), OwnerID: "owner-ana", Name: "Rex", Breed: "labrador", Sex: domain.SexMale, WeightKg: 28.4, Microchip: "985112004521001",
			Notes: []domain.Note{{ID: "note-rex-1", Text: "Pulls on the leash near other dogs.", CreatedAt: baseTime}}},
		{RecordMeta: meta("canine-luna", 1), OwnerID: "owner-ana", Name: "Luna", Breed: "beagle", Sex: domain.SexFemale, WeightKg: 11.2},
		{RecordMeta: meta("canine-toby", 2), OwnerID: "owner-bruno", Name: "Toby", Breed: "poodle", Sex: domain.SexMale, WeightKg: 7.9},
	}

	vets := []domain.VetProfile{
		{RecordMeta: meta("vet-garcia", 0), Name: "Dr. Garcia", Clinic: "Parkside Animal Clinic", Phone: "+1-555-0147", Email: "garcia@parkside.vet"},
		{RecordMeta: meta("vet-okafor", 1), Name: "Dr. Okafor", Clinic: "North Paw Hospital", Phone: "+1-555-0193"},
	}

	contacts := []domain.Contact{
		{RecordMeta: meta("contact-sitter", 0), Name: "Maya Flores", Relation: "sitter", Phone: "+1-555-0102"},
		{RecordMeta: meta("contact-groomer", 1), Name: "Clip & Go", Relation: "groomer", Phone: "+1-555-0156"},
	}

	nutrition := []domain.NutritionEntry{
		{RecordMeta: meta("nutrition-seed-1", 1), CanineID: "canine-rex", FoodType: "Kibble", FoodName: "Adult Large Breed", Quantity: 2, Unit: "cups", Calories: 680, RepeatDays: 1},
		{RecordMeta: meta("nutrition-seed-2", 2), CanineID: "canine-luna", FoodType: "Wet", FoodName: "Chicken Stew", Quantity: 1, Unit: "can", Calories: 320, RepeatDays: 1},
		{RecordMeta: meta("nutrition-seed-3", 3), CanineID: "canine-toby", FoodType: "Treats", FoodName: "Dental Chews", Quantity: 1, Unit: "piece", Calories: 45, RepeatDays: 2},
	}

	training := []domain.TrainingLog{
		{RecordMeta: meta("training-seed-1", 2), CanineID: "canine-rex", Skill: "recall", Status: "in_progress", DurationMin: 20},
		{RecordMeta: meta("training-seed-2", 4), CanineID: "canine-toby", Skill: "sit", Status: "mastered", DurationMin: 10},
	}

	appointments := []domain.Appointment{
		{RecordMeta: meta("appointment-seed-1", 5), CanineID: "canine-rex", Title: "Annual checkup", Category: "vet", StartsAt: baseTime.AddDate(0, 1, 0), VetID: "vet-garcia", Reminder: true},
		{RecordMeta: meta("appointment-seed-2", 6), CanineID: "canine-luna", Title: "Grooming", Category: "grooming", StartsAt: baseTime.AddDate(0, 0, 20)},
	}

	media := []domain.MediaItem{
		{RecordMeta: meta("media-seed-1", 1), CanineID: "canine-rex", MediaKind: "photo", URI: "file://photos/rex-beach.jpg", Caption: "First beach day"},
		{RecordMeta: meta("media-seed-2", 3), CanineID: "canine-luna", MediaKind: "photo", URI: "file://photos/luna-nap.jpg"},
	}

	medical := []domain.MedicalRecord{
		{RecordMeta: meta("medical-seed-1", 4), CanineID: "canine-rex", Title: "Ear infection", Diagnosis: "Otitis externa", Treatment: "Drops, 10 days",
			Attachments: []domain.Attachment{{ID: "attachment-seed-1", Name: "lab-results.pdf", URI: "file://docs/lab-results.pdf", MimeType: "application/pdf"}}},
	}

	medications := []domain.MedicationEntry{
		{RecordMeta: meta("medication-seed-1", 4), CanineID: "canine-rex", Name: "Otibiotic", Dosage: "5 drops", Frequency: "twice daily",
			StartDate: ptrTime(baseTime.AddDate(0, 0, 4)), EndDate: ptrTime(baseTime.AddDate(0, 0, 14))},
	}

	visits := []domain.VetVisit{
		{RecordMeta: meta("visit-seed-1", 4), CanineID: "canine-rex", Reason: "Ear infection", VetID: "vet-garcia", VisitedAt: baseTime.AddDate(0, 0, 4), WeightKg: 28.4, Summary: "Prescribed drops"},
		{RecordMeta: meta("visit-seed-2", 7), CanineID: "canine-toby", Reason: "Vaccination", VetID: "vet-okafor", VisitedAt: baseTime.AddDate(0, 0, 7), WeightKg: 7.9},
	}

	immunizations := []domain.ImmunizationRecord{
		{RecordMeta: meta("immunization-seed-1", 7), CanineID: "canine-toby", Vaccine: "Rabies", AdministeredAt: baseTime.AddDate(0, 0, 7), ExpiresAt: ptrTime(baseTime.AddDate(3, 0, 0)), LotNumber: "RB-2214"},
		{RecordMeta: meta("immunization-seed-2", 8), CanineID: "canine-luna", Vaccine: "DHPP", AdministeredAt: baseTime.AddDate(0, 0, 8)},
	}

	allergies := []domain.CanineAllergy{
		{RecordMeta: meta("allergy-seed-1", 5), CanineID: "canine-luna", Allergen: "chicken", Severity: "moderate", Reaction: "itchy skin", NotedAt: ptrTime(baseTime.AddDate(0, 0, 5))},
	}

	return Dataset{
		Owners:        owners,
		Canines:       canines,
		Nutrition:     nutrition,
		Training:      training,
		Appointments:  appointments,
		Media:         media,
		Medical:       medical,
		Medications:   medications,
		Visits:        visits,
		Immunizations: immunizations,
		Allergies:     allergies,
		Vets:          vets,
		Contacts:      contacts,
	}
}
