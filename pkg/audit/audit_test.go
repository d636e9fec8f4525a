package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"censorship/pkg/censor"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
	sent chan struct{}
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.mu.Lock()
	w.msgs = append(w.msgs, msgs...)
	w.mu.Unlock()
	if w.sent != nil {
		w.sent <- struct{}{}
	}
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := New("censorship", w)

	rec := Record{RequestID: "req-1", Service: "censorship", Entry: "text", Nodes: 2, Replaced: 1, Dropped: 1}
	if err := p.Publish(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("want 1 message, got %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "req-1" {
		t.Errorf("want key %q, got %q", "req-1", w.msgs[0].Key)
	}

	var got Record
	if err := json.Unmarshal(w.msgs[0].Value, &got); err != nil {
		t.Fatalf("failed to unmarshal record: %v", err)
	}
	if got.Entry != "text" || got.Dropped != 1 || got.Replaced != 1 {
		t.Errorf("want record %+v, got %+v", rec, got)
	}
}

func TestPublisher_PublishError(t *testing.T) {
	wantErr := errors.New("broker down")
	p := New("censorship", &fakeWriter{err: wantErr})

	err := p.Publish(context.Background(), Record{})
	if !errors.Is(err, wantErr) {
		t.Errorf("want error %v, got %v", wantErr, err)
	}
}

func TestPublisher_Observer(t *testing.T) {
	w := &fakeWriter{sent: make(chan struct{}, 1)}
	p := New("censorship", w)

	observe := p.Observer(func(context.Context) string { return "req-42" })
	observe(context.Background(), censor.Event{Entry: "image", Nodes: 1, Dropped: 1, Duration: time.Millisecond})

	select {
	case <-w.sent:
	case <-time.After(5 * time.Second):
		t.Fatal("record was not published")
	}

	var got Record
	if err := json.Unmarshal(w.msgs[0].Value, &got); err != nil {
		t.Fatalf("failed to unmarshal record: %v", err)
	}
	if got.RequestID != "req-42" || got.Service != "censorship" || got.Entry != "image" {
		t.Errorf("unexpected record %+v", got)
	}
	if got.DocumentID() != "censorship:req-42:image" {
		t.Errorf("want document id %q, got %q", "censorship:req-42:image", got.DocumentID())
	}
}

func TestRecord_DocumentID(t *testing.T) {
	tests := []struct {
		name string
		a, b Record
	}{
		{
			name: "request id and entry boundary",
			a:    Record{Service: "censorship", RequestID: "a", Entry: "bc"},
			b:    Record{Service: "censorship", RequestID: "ab", Entry: "c"},
		},
		{
			name: "service and request id boundary",
			a:    Record{Service: "censor", RequestID: "ship1", Entry: "text"},
			b:    Record{Service: "censorship", RequestID: "1", Entry: "text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a.DocumentID() == tt.b.DocumentID() {
				t.Errorf("want distinct document ids, got %q for both", tt.a.DocumentID())
			}
		})
	}
}
