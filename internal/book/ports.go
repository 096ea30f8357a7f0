package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_store_test.go -package=book

// Store defines the contract for catalog storage. Genre and author matching
// is case- and accent-insensitive.
type Store interface {
	GetByID(ctx context.Context, id string) (Book, error)
	// GetByIDs omits ids that do not exist.
	GetByIDs(ctx context.Context, ids []string) ([]Book, error)
	GetAll(ctx context.Context) ([]Book, error)
	GetByGenre(ctx context.Context, genre string) ([]Book, error)
	GetByAuthor(ctx context.Context, author string) ([]Book, error)
	Count(ctx context.Context) (int, error)
	InsertMany(ctx context.Context, books []Book) (int, error)
}

// Tracker records and lists the books a client viewed recently.
type Tracker interface {
	Track(ctx context.Context, clientID, bookID string) error
	Find(ctx context.Context, clientID string) ([]string, error)
}
