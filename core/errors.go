package core

import "errors"

var (
	// ErrEmptyInput marks requests whose input carries nothing to analyze.
	ErrEmptyInput = errors.New("empty input")

	// ErrExternalCall marks failures of a collaborator call (language model,
	// transcription, annotator).
	ErrExternalCall = errors.New("external call failed")

	// ErrSchemaValidation marks structured completions that do not parse or
	// do not satisfy their declared shape.
	ErrSchemaValidation = errors.New("schema validation failed")

	// ErrIndexConsistency marks analysis output referencing segment indices
	// that do not exist in the transcript it was derived from.
	ErrIndexConsistency = errors.New("segment index consistency violated")
)
