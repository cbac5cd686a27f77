package domain

// SyncState tracks how far a locally visible record has propagated to the
// remote backend. Records loaded from or confirmed by the backend are
// "synced"; records created or patched while the backend was unreachable are
// "local-only" until the retry queue promotes them to "pendingRetry" and,
// eventually, back to "synced".
type SyncState string

const (
	SyncStateSynced    SyncState = "synced"
	SyncStatePending   SyncState = "pendingRetry"
	SyncStateLocalOnly SyncState = "local-only"
)
