package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS censor_words (
		word TEXT PRIMARY KEY
	)
`

type Store struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, conStr string) (*Store, error) {
	db, err := pgxpool.Connect(ctx, conStr)
	if err != nil {
		return nil, err
	}
	s := Store{
		db: db,
	}

	return &s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() {
	s.db.Close()
}

// Init creates the words table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schema)
	return err
}

// Words returns every stored word ordered alphabetically.
func (s *Store) Words(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT word FROM censor_words ORDER BY word`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return words, nil
}

// AddWords inserts the words within a single transaction, skipping the ones already stored.
// It returns the number of inserted rows.
func (s *Store) AddWords(ctx context.Context, words []string) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	batch := new(pgx.Batch)
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		batch.Queue(`
			INSERT INTO censor_words (word)
			VALUES ($1)
			ON CONFLICT (word) DO NOTHING
		`, w)
	}

	res := tx.SendBatch(ctx, batch)
	added := 0
	for i := 0; i < batch.Len(); i++ {
		tag, err := res.Exec()
		if err != nil {
			res.Close()
			return 0, err
		}
		added += int(tag.RowsAffected())
	}
	if err := res.Close(); err != nil {
		return 0, err
	}

	return added, tx.Commit(ctx)
}
