package services

import "errors"

var (
	// ErrGameNotFound covers both an unknown game and a membership/result
	// code mismatch: a caller with the wrong secret learns nothing beyond
	// "not found".
	ErrGameNotFound = errors.New("game not found")

	// ErrAlreadyReported means a report already exists for this user+game.
	ErrAlreadyReported = errors.New("results already reported")

	// ErrInvalidStatusTransition means the game is not in a state that
	// allows the requested status change.
	ErrInvalidStatusTransition = errors.New("invalid game status transition")

	// ErrMissingRating is an invariant violation: a matchmaking game
	// reached settlement with no rating row for a participant. Queueing is
	// supposed to create the default row first. Never retried.
	ErrMissingRating = errors.New("missing matchmaking rating row")

	// ErrUserNotFound means a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
