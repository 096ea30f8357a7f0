// Package seed fills an empty catalog with books generated by Google AI
// Studio. It is a development convenience; the API never depends on it.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"catalogapi/internal/book"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed schema.json
var responseSchema []byte

// DefaultPrompt asks for a mix of real and invented books, in Brazilian
// Portuguese.
const DefaultPrompt = "Gere uma lista de exatamente 80 livros, baseado no json de resposta que esta configurado. " +
	"70% dos livros devem ser reais, com informações de livros famosos. " +
	"Os outros 30%, gere livros fictícios criativos com autores também fictícios. " +
	"Todos os livros devem ter as informações em português do Brasil."

// ErrMalformedResponse is returned when the generated text is not a books document.
var ErrMalformedResponse = errors.New("malformed seed response")

// Generator produces a JSON document that follows schema.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, schema json.RawMessage) (string, error)
}

// Store is the part of book.Store the seeder needs.
type Store interface {
	Count(ctx context.Context) (int, error)
	InsertMany(ctx context.Context, books []book.Book) (int, error)
}

type Config struct {
	// Enabled is false when no API key is configured.
	Enabled bool
	Prompt  string
}

type Service struct {
	generator Generator
	store     Store
	cfg       Config
	logger    *zap.Logger
}

func NewService(generator Generator, store Store, cfg Config, logger *zap.Logger) *Service {
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{generator: generator, store: store, cfg: cfg, logger: logger}
}

// Run seeds the catalog when it is empty and returns how many books were
// inserted. A catalog that already has books is left untouched.
func (s *Service) Run(ctx context.Context) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	if count > 0 {
		s.logger.Info("catalog already populated, skipping seed", zap.Int("books", count))
		return 0, nil
	}
	if !s.cfg.Enabled {
		s.logger.Warn("AI Studio API key not configured, skipping seed")
		return 0, nil
	}

	s.logger.Info("catalog empty, requesting generated books")
	text, err := s.generator.GenerateJSON(ctx, s.cfg.Prompt, responseSchema)
	if err != nil {
		return 0, fmt.Errorf("generate books: %w", err)
	}

	books, err := parseBooks(text)
	if err != nil {
		return 0, err
	}
	if len(books) == 0 {
		s.logger.Warn("generated document contained no usable books")
		return 0, nil
	}

	n, err := s.store.InsertMany(ctx, books)
	if err != nil {
		return 0, fmt.Errorf("insert seeded books: %w", err)
	}
	s.logger.Info("seeded catalog", zap.Int("books", n))
	return n, nil
}

type document struct {
	Books *[]book.Book `json:"books"`
}

// parseBooks decodes {"books":[...]}. Records without an id get a random
// UUID; records repeating an earlier id are dropped.
func parseBooks(text string) ([]book.Book, error) {
	var doc document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if doc.Books == nil {
		return nil, fmt.Errorf("%w: missing books array", ErrMalformedResponse)
	}

	seen := make(map[string]struct{}, len(*doc.Books))
	out := make([]book.Book, 0, len(*doc.Books))
	for _, b := range *doc.Books {
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if _, ok := seen[b.ID]; ok {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	return out, nil
}
