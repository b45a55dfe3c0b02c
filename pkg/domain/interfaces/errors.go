package interfaces

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNotFound is returned by every repository when a record does not exist
	ErrNotFound = goerr.New("not found")

	// ErrValidationColumnsUnsupported is returned by MarkValidated when the
	// store predates the dedicated validated_by / validated_at fields
	ErrValidationColumnsUnsupported = goerr.New("validation columns not supported by store")
)
