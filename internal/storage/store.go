// Package storage provides the durable key-value stores the todo list is
// persisted to.
package storage

import (
	"fmt"
	"io"

	"github.com/valter-silva-au/todo/pkg/models"
)

// Store is a string key-value store. Get reports ok=false for keys that
// were never written; Set overwrites the whole value.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	io.Closer
}

// Open creates the store for the named backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case models.BackendFile, "":
		return NewFileStore(dir), nil
	case models.BackendSQLite:
		s, err := NewSQLiteStore(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case models.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("opening store: unknown backend %q", backend)
	}
}
