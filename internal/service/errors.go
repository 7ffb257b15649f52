package service

import "errors"

var (
	// ErrCreatorNotFound is returned by CreateRoom when the creator username
	// does not resolve; no room row is persisted in that case.
	ErrCreatorNotFound = errors.New("creator not found")

	// ErrNotMember covers both "no membership row" and "no such user" —
	// callers outside the room boundary cannot tell the two apart.
	ErrNotMember = errors.New("not a member of this room")

	// ErrMessageNotInRoom is returned when a read-cursor advance references
	// a message id that does not exist in the target room.
	ErrMessageNotInRoom = errors.New("message does not belong to this room")

	ErrEmailTaken         = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
