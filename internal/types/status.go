package types

// Status is a type for the lifecycle status of a row in the database.
// This is independent of any domain-level status a record may carry.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)
