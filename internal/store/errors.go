package store

import "errors"

// Sentinel errors returned by the stores once gorm errors have been
// translated. Callers match on these instead of driver specifics.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("already exists")
)
