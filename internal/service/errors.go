package service

import "errors"

// Gate errors returned when a lifecycle predicate denies an operation.
// Callers match them with errors.Is.
var (
	ErrNotEditable   = errors.New("version is locked or active and cannot be edited")
	ErrNotDeletable  = errors.New("version is locked or active and cannot be deleted")
	ErrNotLockable   = errors.New("version is already locked")
	ErrNotUnlockable = errors.New("version is active or not locked")
	ErrNotActivable  = errors.New("version must be locked and not yet active")
)
