package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectBooks = `
		SELECT id, title, authors, genres, description, price, stock
		FROM books`

// PostgresRepo stores books in Postgres. Genre and author membership use the
// pt_ci_ai ICU collation created by the initial migration.
type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(timeoutCtx, selectBooks+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, unavailable("get book "+id, err)
	}
	return b, nil
}

func (r *PostgresRepo) GetByIDs(ctx context.Context, ids []string) ([]Book, error) {
	if len(ids) == 0 {
		return []Book{}, nil
	}
	return r.query(ctx, "get books by ids", selectBooks+` WHERE id = ANY($1) ORDER BY title, id`, ids)
}

func (r *PostgresRepo) GetAll(ctx context.Context) ([]Book, error) {
	return r.query(ctx, "list books", selectBooks+` ORDER BY title, id`)
}

func (r *PostgresRepo) GetByGenre(ctx context.Context, genre string) ([]Book, error) {
	return r.query(ctx, "list books by genre",
		selectBooks+` WHERE $1::text COLLATE pt_ci_ai = ANY(genres) ORDER BY title, id`, genre)
}

func (r *PostgresRepo) GetByAuthor(ctx context.Context, author string) ([]Book, error) {
	return r.query(ctx, "list books by author",
		selectBooks+` WHERE $1::text COLLATE pt_ci_ai = ANY(authors) ORDER BY title, id`, author)
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var count int
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM books").Scan(&count); err != nil {
		return 0, unavailable("count books", err)
	}
	return count, nil
}

// InsertMany bulk-loads books with COPY. It is meant for seeding an empty
// table; a duplicate id aborts the whole batch.
func (r *PostgresRepo) InsertMany(ctx context.Context, books []Book) (int, error) {
	if len(books) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(books))
	for _, b := range books {
		rows = append(rows, []any{b.ID, b.Title, nonNil(b.Authors), nonNil(b.Genres), b.Description, b.Price, b.Stock})
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	n, err := r.db.CopyFrom(timeoutCtx,
		pgx.Identifier{"books"},
		[]string{"id", "title", "authors", "genres", "description", "price", "stock"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, unavailable("insert books", err)
	}
	return int(n), nil
}

func (r *PostgresRepo) query(ctx context.Context, op, sql string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, unavailable(op, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(op, err)
	}
	return out, nil
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Authors, &b.Genres, &b.Description, &b.Price, &b.Stock)
	return b, err
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
