package domain

// Identity is the ephemeral per-request resolution of a candidate user id.
// It is never persisted; anonymous viewers get a throwaway display name.
type Identity struct {
	ID           UserID
	DisplayName  string
	IsRegistered bool
}
