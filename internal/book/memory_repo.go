package book

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"catalogapi/internal/platform/collation"
)

type memoryRecord struct {
	book    Book
	genres  []string
	authors []string
}

// MemoryRepo is an in-process Store. Genre and author values are folded on
// write and on query so that matching ignores case and accents.
type MemoryRepo struct {
	mu      sync.RWMutex
	records []memoryRecord
	index   map[string]int
}

func NewMemoryRepo(books ...Book) *MemoryRepo {
	r := &MemoryRepo{index: make(map[string]int)}
	_, _ = r.InsertMany(context.Background(), books)
	return r
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return cloneBook(r.records[i].book), nil
}

func (r *MemoryRepo) GetByIDs(_ context.Context, ids []string) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Book{}
	for _, id := range ids {
		if i, ok := r.index[id]; ok {
			out = append(out, cloneBook(r.records[i].book))
		}
	}
	return out, nil
}

func (r *MemoryRepo) GetAll(context.Context) ([]Book, error) {
	return r.filter(func(memoryRecord) bool { return true }), nil
}

func (r *MemoryRepo) GetByGenre(_ context.Context, genre string) ([]Book, error) {
	key := collation.Fold(genre)
	return r.filter(func(rec memoryRecord) bool { return slices.Contains(rec.genres, key) }), nil
}

func (r *MemoryRepo) GetByAuthor(_ context.Context, author string) ([]Book, error) {
	key := collation.Fold(author)
	return r.filter(func(rec memoryRecord) bool { return slices.Contains(rec.authors, key) }), nil
}

func (r *MemoryRepo) Count(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

func (r *MemoryRepo) InsertMany(_ context.Context, books []Book) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make(map[string]struct{}, len(books))
	for _, b := range books {
		if b.ID == "" {
			return 0, fmt.Errorf("insert book %q: empty id", b.Title)
		}
		_, stored := r.index[b.ID]
		_, repeated := batch[b.ID]
		if stored || repeated {
			return 0, fmt.Errorf("insert book %s: duplicate id", b.ID)
		}
		batch[b.ID] = struct{}{}
	}
	for _, b := range books {
		r.index[b.ID] = len(r.records)
		r.records = append(r.records, memoryRecord{
			book:    cloneBook(b),
			genres:  foldAll(b.Genres),
			authors: foldAll(b.Authors),
		})
	}
	return len(books), nil
}

func (r *MemoryRepo) filter(match func(memoryRecord) bool) []Book {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Book{}
	for _, rec := range r.records {
		if match(rec) {
			out = append(out, cloneBook(rec.book))
		}
	}
	return out
}

func foldAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = collation.Fold(v)
	}
	return out
}

func cloneBook(b Book) Book {
	b.Authors = slices.Clone(b.Authors)
	b.Genres = slices.Clone(b.Genres)
	return b
}
