package domain

// Shared records are not owned by a canine. They can be referenced by
// dependent records (Appointment.VetID, VetVisit.VetID) but deleting one only
// clears those references.

// VetProfile is a veterinarian or clinic visible to every actor.
type VetProfile struct {
	RecordMeta `bson:",inline"`

	Name    string `json:"name" bson:"name" validate:"required"`
	Clinic  string `json:"clinic,omitempty" bson:"clinic,omitempty"`
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email   string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
}

func (e VetProfile) WithMeta(m RecordMeta) VetProfile { e.RecordMeta = m; return e }
func (e VetProfile) ParentID() string                 { return "" }
func (e VetProfile) Kind() string                     { return "vet" }

// Contact is an emergency or care contact visible to every actor.
type Contact struct {
	RecordMeta `bson:",inline"`

	Name     string `json:"name" bson:"name" validate:"required"`
	Relation string `json:"relation,omitempty" bson:"relation,omitempty"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email    string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
}

func (e Contact) WithMeta(m RecordMeta) Contact { e.RecordMeta = m; return e }
func (e Contact) ParentID() string              { return "" }
func (e Contact) Kind() string                  { return "contact" }
