// internal/pool/status.go
package pool

// Status is the pool lifecycle state. Transitions are monotonic:
// Active -> Migrating -> Migrated, with a single Migrating -> Active
// edge used only to roll back a failed migration attempt.
type Status uint8

const (
	StatusActive Status = iota
	StatusMigrating
	StatusMigrated
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusMigrating:
		return "migrating"
	case StatusMigrated:
		return "migrated"
	default:
		return "unknown"
	}
}
