package seed

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"catalogapi/internal/book"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateJSON(ctx context.Context, prompt string, schema json.RawMessage) (string, error) {
	args := m.Called(ctx, prompt, schema)
	return args.String(0), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) InsertMany(ctx context.Context, books []book.Book) (int, error) {
	args := m.Called(ctx, books)
	return args.Int(0), args.Error(1)
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("catalog already populated", func(t *testing.T) {
		gen := new(mockGenerator)
		store := new(mockStore)
		s := NewService(gen, store, Config{Enabled: true}, zap.NewNop())

		store.On("Count", ctx).Return(12, nil)

		n, err := s.Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		gen.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "InsertMany", mock.Anything, mock.Anything)
	})

	t.Run("no api key", func(t *testing.T) {
		gen := new(mockGenerator)
		store := new(mockStore)
		s := NewService(gen, store, Config{}, zap.NewNop())

		store.On("Count", ctx).Return(0, nil)

		n, err := s.Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		gen.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inserts generated books", func(t *testing.T) {
		gen := new(mockGenerator)
		store := new(mockStore)
		s := NewService(gen, store, Config{Enabled: true}, zap.NewNop())

		text := `{"books":[
			{"id":"1","title":"Dom Casmurro","authors":["Machado de Assis"],"genres":["Romance"],"price":39.9,"stock":4},
			{"title":"sem id"},
			{"id":"1","title":"repetido"},
			{"id":"2","title":"O Cortiço","authors":["Aluísio Azevedo"],"genres":["Naturalismo"]}
		]}`

		store.On("Count", ctx).Return(0, nil)
		gen.On("GenerateJSON", ctx, DefaultPrompt, mock.MatchedBy(func(schema json.RawMessage) bool {
			return json.Valid(schema)
		})).Return(text, nil)
		store.On("InsertMany", ctx, mock.MatchedBy(func(books []book.Book) bool {
			if len(books) != 3 || books[0].Title != "Dom Casmurro" || books[2].ID != "2" {
				return false
			}
			_, err := uuid.Parse(books[1].ID)
			return books[1].Title == "sem id" && err == nil
		})).Return(3, nil)

		n, err := s.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		store.AssertExpectations(t)
	})

	t.Run("malformed document inserts nothing", func(t *testing.T) {
		gen := new(mockGenerator)
		store := new(mockStore)
		s := NewService(gen, store, Config{Enabled: true}, zap.NewNop())

		store.On("Count", ctx).Return(0, nil)
		gen.On("GenerateJSON", ctx, mock.Anything, mock.Anything).Return(`{"livros":[]}`, nil)

		_, err := s.Run(ctx)
		assert.ErrorIs(t, err, ErrMalformedResponse)
		store.AssertNotCalled(t, "InsertMany", mock.Anything, mock.Anything)
	})

	t.Run("generator failure", func(t *testing.T) {
		gen := new(mockGenerator)
		store := new(mockStore)
		s := NewService(gen, store, Config{Enabled: true}, zap.NewNop())
		genErr := errors.New("quota exceeded")

		store.On("Count", ctx).Return(0, nil)
		gen.On("GenerateJSON", ctx, mock.Anything, mock.Anything).Return("", genErr)

		_, err := s.Run(ctx)
		assert.ErrorIs(t, err, genErr)
		store.AssertNotCalled(t, "InsertMany", mock.Anything, mock.Anything)
	})
}

func TestResponseSchema_IsValidJSON(t *testing.T) {
	var schema map[string]any
	require.NoError(t, json.Unmarshal(responseSchema, &schema))
	assert.Equal(t, "OBJECT", schema["type"])
}
