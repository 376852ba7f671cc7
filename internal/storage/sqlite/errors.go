package sqlite

import "errors"

var (
	// ErrKeyNotFound is returned by Get for a key that was never set.
	ErrKeyNotFound = errors.New("key not found")
	// ErrInvalidKey indicates an empty key.
	ErrInvalidKey = errors.New("invalid key")
	// ErrInvalidNotificationID indicates an empty notification identifier.
	ErrInvalidNotificationID = errors.New("invalid notification identifier")
)

var validStates = map[string]bool{
	"pending":   true,
	"delivered": true,
}
