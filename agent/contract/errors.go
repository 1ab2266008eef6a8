package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")

	// ErrDataLoad means the certification dataset is missing or malformed.
	// It is fatal: the process cannot start without the catalog.
	ErrDataLoad = errors.New("certification data load failed")

	// ErrNotFound is a catalog lookup miss.
	ErrNotFound = errors.New("certification not found")

	// ErrStageFailure means an agent could not produce even a fallback
	// result; the runner halts and surfaces a partial roadmap.
	ErrStageFailure = errors.New("pipeline stage failed")
)
