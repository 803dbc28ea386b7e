package common

import "fmt"

// Status represents the per-recipient delivery state of a message.
// The values are ordered: Sent < Delivered < Read. A receipt only ever
// moves forward through this ordering.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
)

// String returns the wire representation
func (s Status) String() string {
	return string(s)
}

// Rank returns the position of the status in the Sent < Delivered < Read
// ordering, or -1 for an unknown value.
func (s Status) Rank() int {
	switch s {
	case StatusSent:
		return 0
	case StatusDelivered:
		return 1
	case StatusRead:
		return 2
	}
	return -1
}

// IsValid checks if the status is one of the known values
func (s Status) IsValid() bool {
	return s.Rank() >= 0
}

// ParseStatus converts a wire string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown message status %q", raw)
	}
	return s, nil
}

// ChatType distinguishes two-participant rooms from named group rooms.
type ChatType string

const (
	ChatTypePrivate ChatType = "private"
	ChatTypeGroup   ChatType = "group"
)

// IsValid checks if the chat type is one of the known values
func (ct ChatType) IsValid() bool {
	return ct == ChatTypePrivate || ct == ChatTypeGroup
}
