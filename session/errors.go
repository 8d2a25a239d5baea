package session

import "errors"

// Error kinds surfaced by controller operations. Validation failures are
// reported before any network call; import failures leave the previous
// session untouched.
var (
	ErrValidation = errors.New("validation")
	ErrImport     = errors.New("import")
)
