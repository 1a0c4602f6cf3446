package types

// Status is the lifecycle status of a persisted resource. Deleted rows are
// kept for bookkeeping and excluded from queries by default.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)
