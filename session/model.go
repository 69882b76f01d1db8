package session

// Tokens is the credential pair cached for one chat. A stored record is
// always structurally complete: access and refresh are both present, never
// partially written.
type Tokens struct {
	Access  string
	Refresh string

	// SavedAt is the unix time of the last write, kept for diagnostics.
	SavedAt int64
}
