package plans

import "errors"

var (
	// ErrValidation covers user-correctable input problems: blank
	// plan names, merging fewer than two plans. Nothing is mutated
	// when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrMalformedImport covers unparsable or wrongly-shaped import
	// documents. The whole import is rejected; the stored collection
	// is untouched.
	ErrMalformedImport = errors.New("malformed import")
)
