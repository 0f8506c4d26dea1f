package service

import "errors"

var (
	// ErrValidation marks a request rejected before any persistence write.
	ErrValidation = errors.New("validation failed")
	// ErrEmptyContent is returned when a snapshot is requested for a
	// chapter that has no content to snapshot.
	ErrEmptyContent = errors.New("chapter has no content")
)
