package domain

// ChangeType represents the type of document change.
type ChangeType int

const (
	// ChangeCreated indicates a new document.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified document.
	ChangeUpdated

	// ChangeDeleted indicates a removed document.
	ChangeDeleted
)

// String returns the string representation.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// DocumentChange is a change to a documentation source observed by a watcher.
type DocumentChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Path is the file that changed.
	Path string

	// DocumentID identifies the affected document.
	DocumentID string

	// Document is the loaded document; nil for deletions.
	Document *Document
}
