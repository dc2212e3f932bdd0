// Package policy decides what may be done to a catalog version. The
// service layer consumes the five capability predicates as authoritative
// gates and never derives them itself.
package policy

import "github.com/quotekit/cpq/internal/domain"

// Provider exposes the capability predicates for a Version.
type Provider interface {
	IsEditable(v *domain.Version) bool
	IsDeletable(v *domain.Version) bool
	IsLockable(v *domain.Version) bool
	IsUnlockable(v *domain.Version) bool
	IsActivable(v *domain.Version) bool
}

// LifecyclePolicy derives the predicates from the version's lock/active
// flags: drafts are freely mutable, locking freezes content, and only a
// locked version can be activated. Activation is terminal.
type LifecyclePolicy struct{}

func (LifecyclePolicy) IsEditable(v *domain.Version) bool {
	return !v.IsLocked && !v.IsActive
}

func (LifecyclePolicy) IsDeletable(v *domain.Version) bool {
	return !v.IsLocked && !v.IsActive
}

func (LifecyclePolicy) IsLockable(v *domain.Version) bool {
	return !v.IsLocked
}

func (LifecyclePolicy) IsUnlockable(v *domain.Version) bool {
	return v.IsLocked && !v.IsActive
}

func (LifecyclePolicy) IsActivable(v *domain.Version) bool {
	return v.IsLocked && !v.IsActive
}
