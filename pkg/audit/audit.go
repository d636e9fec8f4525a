// Package audit publishes per-interceptor transform records to Kafka.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"censorship/pkg/censor"
)

const writeTimeout = 10 * time.Second

// Record is one interceptor applied during one transform call.
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id"`
	Service     string    `json:"service"`
	Entry       string    `json:"entry"`
	Nodes       int       `json:"nodes"`
	Replaced    int       `json:"replaced"`
	Dropped     int       `json:"dropped"`
	Failed      int       `json:"failed"`
	DurationSec float64   `json:"duration_sec"`
}

// DocumentID identifies the record in the audit index. The parts are joined with ':' so
// that distinct records never share an id and the id stays a single URL path segment.
func (r Record) DocumentID() string {
	return r.Service + ":" + r.RequestID + ":" + r.Entry
}

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Publisher struct {
	ServiceName string

	w MessageWriter
}

func New(name string, w MessageWriter) *Publisher {
	return &Publisher{ServiceName: name, w: w}
}

// Publish writes rec synchronously.
func (p *Publisher) Publish(ctx context.Context, rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{Key: []byte(rec.RequestID), Value: b})
}

// Observer adapts the publisher to censor.WithObserver. Records are written in the
// background so a slow broker never delays the transform.
func (p *Publisher) Observer(requestID func(context.Context) string) func(context.Context, censor.Event) {
	return func(ctx context.Context, ev censor.Event) {
		rec := Record{
			Timestamp:   time.Now(),
			RequestID:   requestID(ctx),
			Service:     p.ServiceName,
			Entry:       ev.Entry,
			Nodes:       ev.Nodes,
			Replaced:    ev.Replaced,
			Dropped:     ev.Dropped,
			Failed:      ev.Failed,
			DurationSec: ev.Duration.Seconds(),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			defer cancel()

			if err := p.Publish(ctx, rec); err != nil {
				log.Errorf("[audit] failed to write record to Kafka: %v", err)
				return
			}
			log.Debugf("[audit] record sent to Kafka request_id:%s entry:%s", rec.RequestID, rec.Entry)
		}()
	}
}
