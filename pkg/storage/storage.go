// Package storage defines persistent word list stores.
package storage

import (
	"context"
	"fmt"
)

var (
	ErrConnectDB       = fmt.Errorf("unable to establish DB connection")
	ErrDBNotResponding = fmt.Errorf("DB not responding")
)

// WordStore keeps dictionary words outside of word list files.
type WordStore interface {
	// Words returns every stored word.
	Words(ctx context.Context) ([]string, error)
	// AddWords stores words that are not present yet and returns how many were added.
	AddWords(ctx context.Context, words []string) (int, error)
	Close()
}
