package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed or self-contradictory search request.
	ErrInvalidRequest = errors.New("invalid search request")
	// ErrBackendUnavailable signals that the search index is unreachable or erroring.
	ErrBackendUnavailable = errors.New("search backend unavailable")
	// ErrContentPolicy signals that the model rejected a generation request on content grounds.
	ErrContentPolicy = errors.New("content policy rejection")
	// ErrModelFailure signals any other generation failure.
	ErrModelFailure = errors.New("model failure")
	// ErrFeedUnavailable signals an RSS fetch or parse failure.
	ErrFeedUnavailable = errors.New("feed unavailable")
	// ErrSessionNotFound signals an unknown or expired chat session.
	ErrSessionNotFound = errors.New("session not found")
)
