package memdb

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type Store struct {
	mu    sync.Mutex
	words map[string]struct{}
}

func New(words ...string) *Store {
	db := Store{
		words: make(map[string]struct{}),
	}
	db.AddWords(context.Background(), words)

	return &db
}

// Words returns the stored words in ascending order.
func (db *Store) Words(ctx context.Context) ([]string, error) {
	db.mu.Lock()
	words := make([]string, 0, len(db.words))
	for w := range db.words {
		words = append(words, w)
	}
	db.mu.Unlock()

	sort.Strings(words)
	return words, nil
}

func (db *Store) AddWords(ctx context.Context, words []string) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	added := 0
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, ok := db.words[w]; ok {
			continue
		}
		db.words[w] = struct{}{}
		added++
	}

	return added, nil
}

func (db *Store) Close() {}
