package domain

import "errors"

// Domain-specific errors for vocab operations.
var (
	ErrVocabNotFound  = errors.New("vocab not found")
	ErrInvalidVocabID = errors.New("vocab id must be a valid UUID")

	// Validation errors
	ErrWordRequired = errors.New("word is required")
	ErrEmptyPatch   = errors.New("no fields to update")
	ErrNULCharacter = errors.New("text fields must not contain NUL characters")
)
