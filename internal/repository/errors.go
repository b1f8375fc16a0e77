// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them to HTTP status codes: ErrNotFound becomes 404, the conflict
// sentinels become 409, and ErrForbidden becomes 403. Low-level store
// errors (e.g. the MySQL 1062 duplicate-key code) are translated into
// these sentinels inside the repositories so that storage-engine error
// strings never leak past this package.
package repository

import "errors"

// ErrNotFound is returned when a row addressed by ID (or another exact
// key) does not exist. Handlers should translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicateApplication is returned when a candidate already holds an
// application for the same (email, job title) pair. The unique key on
// those columns is the final authority; this sentinel is produced both
// by the advisory pre-check and by the 1062 translation on insert.
var ErrDuplicateApplication = errors.New("application already exists for this job")

// ErrEmailExists is returned when an account email is already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation their
// role does not permit. Handlers should translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")
