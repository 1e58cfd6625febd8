package core

// KeyValueStore is the durable storage capability PersistedList persists
// through. Implementations live in the storage package; defining the
// interface here keeps core independent of it.
type KeyValueStore interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written.
	Get(key string) (value string, ok bool, err error)
	// Set overwrites the value stored under key.
	Set(key, value string) error
}
