package memdb

import (
	"context"
	"reflect"
	"testing"
)

func TestStore_AddWords(t *testing.T) {
	db := New("world")

	added, err := db.AddWords(context.Background(), []string{"hello", " world ", "", "hello", "foo"})
	if err != nil {
		t.Fatalf("unexpected error while adding words: %v", err)
	}
	if added != 2 {
		t.Errorf("want added words %d, got added words %d", 2, added)
	}
	if len(db.words) != 3 {
		t.Errorf("want words in DB %d, got words in DB %d", 3, len(db.words))
	}
}

func TestStore_Words(t *testing.T) {
	db := New("world", "hello", "abc")

	got, err := db.Words(context.Background())
	if err != nil {
		t.Fatalf("unexpected error while reading words: %v", err)
	}

	want := []string{"abc", "hello", "world"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want words %v, got words %v", want, got)
	}
}
