package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Room errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrWrongPassword   = errors.New("wrong room password")
	ErrRoomIDExhausted = errors.New("could not generate a free room id")
)
