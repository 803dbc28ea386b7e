package common

import "errors"

var (
	// ErrRoomNotFound is returned when the referenced room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrNotParticipant is returned when the sender is not a member of the room.
	ErrNotParticipant = errors.New("user is not a participant of the room")

	// ErrNotRecipient is returned when a status update comes from the
	// message's sender or from a user with no receipt for the message.
	ErrNotRecipient = errors.New("user is not a recipient of the message")

	// ErrMessageNotFound is returned when the referenced message does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrStorageFailure wraps failures of the durable-write layer.
	ErrStorageFailure = errors.New("storage failure")
)
