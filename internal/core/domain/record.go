package domain

import "time"

// RecordMeta carries the identity, timestamps, and sync state shared by every
// stored record. Entity types embed it inline so the store and the gateways
// can operate on any record family generically.
type RecordMeta struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	SyncState SyncState `json:"sync_state,omitempty" bson:"-"`
}

// Meta returns a copy of the record's metadata.
func (m RecordMeta) Meta() RecordMeta { return m }

// RecordID returns the record identifier.
func (m RecordMeta) RecordID() string { return m.ID }

// Record is the constraint satisfied by every entity the store manages.
// WithMeta returns a copy of the record with replaced metadata; records are
// never mutated in place.
type Record[T any] interface {
	Meta() RecordMeta
	WithMeta(RecordMeta) T
	// ParentID is the identifier of the record scoping this one: the owning
	// canine for dependent records, the owning actor for canine profiles,
	// and empty for shared records.
	ParentID() string
	// Kind is the short collection name, also used as the prefix of locally
	// generated identifiers ("nutrition-1700000000000").
	Kind() string
}
