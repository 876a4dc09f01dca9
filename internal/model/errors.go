package model

import "errors"

var (
	// ErrInvalidRepositoryURL is returned when a repository URL is not an absolute http(s) URL
	ErrInvalidRepositoryURL = errors.New("invalid repository url")

	// ErrEmptySource is returned when a release source holds no releases
	ErrEmptySource = errors.New("release source is empty")
)
