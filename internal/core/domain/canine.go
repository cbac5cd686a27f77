package domain

import "time"

// Sex of a canine.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Note is a free-form note attached to a canine profile. Notes are stored as
// an ordered list inside the profile, not as an independent collection.
type Note struct {
	ID        string    `json:"id" bson:"id"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// CanineProfile is the parent record every dependent record family references
// through CanineID. Deleting a profile cascades across all dependents.
type CanineProfile struct {
	RecordMeta `bson:",inline"`

	OwnerID   string     `json:"owner_id" bson:"owner_id"`
	Name      string     `json:"name" bson:"name" validate:"required"`
	Breed     string     `json:"breed,omitempty" bson:"breed,omitempty"`
	Sex       Sex        `json:"sex,omitempty" bson:"sex,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
	WeightKg  float64    `json:"weight_kg,omitempty" bson:"weight_kg,omitempty"`
	Microchip string     `json:"microchip,omitempty" bson:"microchip,omitempty"`
	Notes     []Note     `json:"notes,omitempty" bson:"notes,omitempty"`
}

func (c CanineProfile) WithMeta(m RecordMeta) CanineProfile { c.RecordMeta = m; return c }

// ParentID scopes a profile to its owning actor.
func (c CanineProfile) ParentID() string { return c.OwnerID }

func (c CanineProfile) Kind() string { return "canine" }
