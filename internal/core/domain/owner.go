package domain

import "time"

const (
	RoleAdministrator = "administrator"
	RoleOwner         = "owner"
)

// Owner models an authenticated actor. Administrators see every record;
// owners see only their own canines and the records hanging off them.
type Owner struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// IsAdmin reports whether the owner may see unscoped data.
func (o Owner) IsAdmin() bool { return o.Role == RoleAdministrator }
