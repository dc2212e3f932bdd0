package domain

import "time"

// Version is a catalog snapshot and the root of the ownership hierarchy.
// Once activated it is meant to be immutable; the mutability gates that
// enforce this live behind policy.Provider, never on the entity itself.
type Version struct {
	ID        int64
	Name      string
	UUID      string
	IsLocked  bool
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VersionTree is a Version with its fully loaded product subtree, as
// produced by replication and consumed by callers that need the whole
// catalog branch at once.
type VersionTree struct {
	Version  *Version
	Products []*ProductTree
}
