package console

import "errors"

var (
	// ErrNoQueryService indicates that no query service was provided.
	ErrNoQueryService = errors.New("query service is required")

	errEmptyResult = errors.New("query returned no result")
)
