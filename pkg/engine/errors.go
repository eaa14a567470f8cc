package engine

import "errors"

// Errors returned for calls that do not fit the current state of a session.
var (
	ErrNotStarted    = errors.New("game has not started")
	ErrGameOver      = errors.New("game is over")
	ErrWrongPhase    = errors.New("no prompt of that kind is active")
	ErrInvalidChoice = errors.New("choice index out of range")
	ErrOptionLocked  = errors.New("option requirements not met")
	ErrInvalidName   = errors.New("player name is required")
)
