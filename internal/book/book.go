package book

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrStoreUnavailable wraps failures reaching the catalog store, timeouts included.
var ErrStoreUnavailable = errors.New("catalog store unavailable")

// Book represents a catalog record. Values are treated as immutable once
// read from the store.
type Book struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Genres      []string `json:"genres"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
}

// NotFoundError carries the id that was requested and when the lookup failed.
// It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	ID        string
	Timestamp time.Time
}

func (e *NotFoundError) Error() string {
	return "book not found with id: " + e.ID
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
