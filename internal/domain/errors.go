package domain

import "errors"

var (
	// ErrParse is returned when a collection is not valid JSON or not a JSON array.
	ErrParse = errors.New("parse error")
	// ErrFetch is returned when the example resource cannot be fetched.
	ErrFetch = errors.New("fetch error")
	// ErrValidation is reserved for rejected raw records; the normalizer currently defaults instead.
	ErrValidation = errors.New("validation error")
	// ErrQuestionNotFound indicates no question with the given id exists.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrCollectionNotFound indicates a named collection could not be located.
	ErrCollectionNotFound = errors.New("collection not found")
)
