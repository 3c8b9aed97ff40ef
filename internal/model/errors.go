package model

import "errors"

// Common errors used across the application
var (
	// Join errors
	ErrInvalidUsernameLength = errors.New("username must be between 2 and 20 characters")
	ErrUsernameTaken         = errors.New("username already taken")

	// Message errors
	ErrNotJoined = errors.New("join the chat first")
)
