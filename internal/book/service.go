package book

import (
	"context"
	"errors"
	"time"

	"catalogapi/internal/platform/cache"

	"go.uber.org/zap"
)

const allKey = "all"

// Service provides catalog lookups through the read-through cache and
// resolves recently viewed ids into books.
type Service struct {
	store   Store
	cache   *cache.Cache
	tracker Tracker
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new catalog service.
func NewService(store Store, c *cache.Cache, tracker Tracker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		cache:   c,
		tracker: tracker,
		logger:  logger,
		now:     time.Now,
	}
}

// FindByID returns a book by id or a *NotFoundError. It does not record the
// view; that is up to the caller, who knows the client.
func (s *Service) FindByID(ctx context.Context, id string) (Book, error) {
	if id == "" {
		return Book{}, s.notFound(id)
	}

	b, err := cache.Lookup(ctx, s.cache, cache.SingleByID, id, func(ctx context.Context) (*Book, error) {
		b, err := s.store.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &b, nil
	})
	if err != nil {
		return Book{}, err
	}
	if b == nil {
		return Book{}, s.notFound(id)
	}
	return *b, nil
}

// FindAll returns every book in the catalog.
func (s *Service) FindAll(ctx context.Context) ([]Book, error) {
	return s.list(ctx, cache.All, allKey, s.store.GetAll)
}

// FindByGenre returns the books tagged with genre. The cache key is the raw
// input, so differently cased queries are cached separately.
func (s *Service) FindByGenre(ctx context.Context, genre string) ([]Book, error) {
	return s.list(ctx, cache.ByGenre, genre, func(ctx context.Context) ([]Book, error) {
		return s.store.GetByGenre(ctx, genre)
	})
}

// FindByAuthor returns the books written by author.
func (s *Service) FindByAuthor(ctx context.Context, author string) ([]Book, error) {
	return s.list(ctx, cache.ByAuthor, author, func(ctx context.Context) ([]Book, error) {
		return s.store.GetByAuthor(ctx, author)
	})
}

// FindAllByIDs returns the books for ids in the order the ids were given.
// Unknown ids are skipped and an empty id list yields an empty result.
func (s *Service) FindAllByIDs(ctx context.Context, ids []string) ([]Book, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []Book{}, nil
	}

	books, err := s.list(ctx, cache.ByIDSet, cache.SetKey(ids), func(ctx context.Context) ([]Book, error) {
		return s.store.GetByIDs(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	return orderByIDs(books, ids), nil
}

// FindRecentlyViewed returns the client's recently viewed books, most recent
// first. Tracker failures degrade to an empty result.
func (s *Service) FindRecentlyViewed(ctx context.Context, clientID string) ([]Book, error) {
	if clientID == "" {
		return []Book{}, nil
	}

	ids, err := s.tracker.Find(ctx, clientID)
	if err != nil {
		s.logger.Warn("recently viewed lookup failed",
			zap.String("client_id", clientID), zap.Error(err))
		return []Book{}, nil
	}
	if len(ids) == 0 {
		return []Book{}, nil
	}
	return s.FindAllByIDs(ctx, ids)
}

// TrackView records that clientID viewed bookID. Anonymous views are ignored.
func (s *Service) TrackView(ctx context.Context, clientID, bookID string) error {
	if clientID == "" {
		return nil
	}
	return s.tracker.Track(ctx, clientID, bookID)
}

func (s *Service) list(ctx context.Context, ns cache.Namespace, key string, load func(context.Context) ([]Book, error)) ([]Book, error) {
	books, err := cache.Lookup(ctx, s.cache, ns, key, func(ctx context.Context) ([]Book, error) {
		books, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if books == nil {
			books = []Book{}
		}
		return books, nil
	})
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

func (s *Service) notFound(id string) error {
	return &NotFoundError{ID: id, Timestamp: s.now().UTC()}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func orderByIDs(books []Book, ids []string) []Book {
	byID := make(map[string]Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	out := make([]Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out
}
