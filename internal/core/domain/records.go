package domain

import "time"

// The nine dependent record families. Each carries a CanineID foreign key
// that must reference an existing CanineProfile at creation time.

// NutritionEntry records a feeding plan item.
type NutritionEntry struct {
	RecordMeta `bson:",inline"`

	CanineID   string     `json:"canine_id" bson:"canine_id" validate:"required"`
	FoodType   string     `json:"food_type" bson:"food_type" validate:"required"`
	FoodName   string     `json:"food_name" bson:"food_name"`
	Quantity   float64    `json:"quantity" bson:"quantity"`
	Unit       string     `json:"unit" bson:"unit"`
	Calories   int        `json:"calories" bson:"calories"`
	RepeatDays int        `json:"repeat_days" bson:"repeat_days"`
	FeedTime   *time.Time `json:"feed_time,omitempty" bson:"feed_time,omitempty"`
}

func (e NutritionEntry) WithMeta(m RecordMeta) NutritionEntry { e.RecordMeta = m; return e }
func (e NutritionEntry) ParentID() string                     { return e.CanineID }
func (e NutritionEntry) Kind() string                         { return "nutrition" }

// TrainingLog records a training session or skill progress.
type TrainingLog struct {
	RecordMeta `bson:",inline"`

	CanineID    string `json:"canine_id" bson:"canine_id" validate:"required"`
	Skill       string `json:"skill" bson:"skill" validate:"required"`
	Status      string `json:"status" bson:"status"`
	DurationMin int    `json:"duration_min" bson:"duration_min"`
	Notes       string `json:"notes,omitempty" bson:"notes,omitempty"`
}

func (e TrainingLog) WithMeta(m RecordMeta) TrainingLog { e.RecordMeta = m; return e }
func (e TrainingLog) ParentID() string                  { return e.CanineID }
func (e TrainingLog) Kind() string                      { return "training" }

// Appointment is a scheduled engagement, optionally tied to a vet profile.
// VetID is a soft reference: deleting the vet clears it, never the appointment.
type Appointment struct {
	RecordMeta `bson:",inline"`

	CanineID string    `json:"canine_id" bson:"canine_id" validate:"required"`
	Title    string    `json:"title" bson:"title" validate:"required"`
	Category string    `json:"category,omitempty" bson:"category,omitempty"`
	StartsAt time.Time `json:"starts_at" bson:"starts_at"`
	VetID    string    `json:"vet_id,omitempty" bson:"vet_id,omitempty"`
	Location string    `json:"location,omitempty" bson:"location,omitempty"`
	Reminder bool      `json:"reminder" bson:"reminder"`
}

func (e Appointment) WithMeta(m RecordMeta) Appointment { e.RecordMeta = m; return e }
func (e Appointment) ParentID() string                  { return e.CanineID }
func (e Appointment) Kind() string                      { return "appointment" }

// MediaItem is a photo, video, or document linked to a canine.
type MediaItem struct {
	RecordMeta `bson:",inline"`

	CanineID  string     `json:"canine_id" bson:"canine_id" validate:"required"`
	MediaKind string     `json:"media_kind" bson:"media_kind" validate:"required,oneof=photo video document"`
	URI       string     `json:"uri" bson:"uri" validate:"required"`
	Caption   string     `json:"caption,omitempty" bson:"caption,omitempty"`
	TakenAt   *time.Time `json:"taken_at,omitempty" bson:"taken_at,omitempty"`
}

func (e MediaItem) WithMeta(m RecordMeta) MediaItem { e.RecordMeta = m; return e }
func (e MediaItem) ParentID() string                { return e.CanineID }
func (e MediaItem) Kind() string                    { return "media" }

// Attachment is a file nested inside a medical record.
type Attachment struct {
	ID       string `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	URI      string `json:"uri" bson:"uri"`
	MimeType string `json:"mime_type,omitempty" bson:"mime_type,omitempty"`
}

// MedicalRecord documents a diagnosis with optional attachments.
type MedicalRecord struct {
	RecordMeta `bson:",inline"`

	CanineID    string       `json:"canine_id" bson:"canine_id" validate:"required"`
	Title       string       `json:"title" bson:"title" validate:"required"`
	Diagnosis   string       `json:"diagnosis,omitempty" bson:"diagnosis,omitempty"`
	Treatment   string       `json:"treatment,omitempty" bson:"treatment,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty" bson:"attachments,omitempty"`
}

func (e MedicalRecord) WithMeta(m RecordMeta) MedicalRecord { e.RecordMeta = m; return e }
func (e MedicalRecord) ParentID() string                    { return e.CanineID }
func (e MedicalRecord) Kind() string                        { return "medical" }

// MedicationEntry tracks an ongoing or past medication course.
type MedicationEntry struct {
	RecordMeta `bson:",inline"`

	CanineID  string     `json:"canine_id" bson:"canine_id" validate:"required"`
	Name      string     `json:"name" bson:"name" validate:"required"`
	Dosage    string     `json:"dosage,omitempty" bson:"dosage,omitempty"`
	Frequency string     `json:"frequency,omitempty" bson:"frequency,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty" bson:"end_date,omitempty"`
}

func (e MedicationEntry) WithMeta(m RecordMeta) MedicationEntry { e.RecordMeta = m; return e }
func (e MedicationEntry) ParentID() string                      { return e.CanineID }
func (e MedicationEntry) Kind() string                          { return "medication" }

// VetVisit records a completed visit. VetID is a soft reference like on
// Appointment.
type VetVisit struct {
	RecordMeta `bson:",inline"`

	CanineID  string    `json:"canine_id" bson:"canine_id" validate:"required"`
	Reason    string    `json:"reason" bson:"reason" validate:"required"`
	VetID     string    `json:"vet_id,omitempty" bson:"vet_id,omitempty"`
	VisitedAt time.Time `json:"visited_at" bson:"visited_at"`
	WeightKg  float64   `json:"weight_kg,omitempty" bson:"weight_kg,omitempty"`
	Summary   string    `json:"summary,omitempty" bson:"summary,omitempty"`
}

func (e VetVisit) WithMeta(m RecordMeta) VetVisit { e.RecordMeta = m; return e }
func (e VetVisit) ParentID() string               { return e.CanineID }
func (e VetVisit) Kind() string                   { return "visit" }

// ImmunizationRecord tracks a vaccine administration.
type ImmunizationRecord struct {
	RecordMeta `bson:",inline"`

	CanineID       string     `json:"canine_id" bson:"canine_id" validate:"required"`
	Vaccine        string     `json:"vaccine" bson:"vaccine" validate:"required"`
	AdministeredAt time.Time  `json:"administered_at" bson:"administered_at"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	LotNumber      string     `json:"lot_number,omitempty" bson:"lot_number,omitempty"`
}

func (e ImmunizationRecord) WithMeta(m RecordMeta) ImmunizationRecord { e.RecordMeta = m; return e }
func (e ImmunizationRecord) ParentID() string                         { return e.CanineID }
func (e ImmunizationRecord) Kind() string                             { return "immunization" }

// CanineAllergy records a known allergy.
type CanineAllergy struct {
	RecordMeta `bson:",inline"`

	CanineID string     `json:"canine_id" bson:"canine_id" validate:"required"`
	Allergen string     `json:"allergen" bson:"allergen" validate:"required"`
	Severity string     `json:"severity,omitempty" bson:"severity,omitempty" validate:"omitempty,oneof=mild moderate severe"`
	Reaction string     `json:"reaction,omitempty" bson:"reaction,omitempty"`
	NotedAt  *time.Time `json:"noted_at,omitempty" bson:"noted_at,omitempty"`
}

func (e CanineAllergy) WithMeta(m RecordMeta) CanineAllergy { e.RecordMeta = m; return e }
func (e CanineAllergy) ParentID() string                    { return e.CanineID }
func (e CanineAllergy) Kind() string                        { return "allergy" }
