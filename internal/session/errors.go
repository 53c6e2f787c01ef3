package session

import "errors"

var (
	// ErrNilStorage is returned when a Manager is built without a backing store.
	ErrNilStorage = errors.New("session storage is nil")

	// ErrUnknownStorage is returned by NewStorage for an unsupported storage type.
	ErrUnknownStorage = errors.New("unknown session storage type")

	// ErrCorruptRecord is returned when a stored record can not be decoded.
	ErrCorruptRecord = errors.New("corrupt session record")

	// ErrNilRecord is returned when a nil record is passed to the Manager.
	ErrNilRecord = errors.New("session record is nil")
)

func isCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptRecord)
}
