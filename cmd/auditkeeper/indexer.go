package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"censorship/pkg/api"
	"censorship/pkg/audit"
)

// route tells where records of one topic are indexed and how their document id is built.
type route struct {
	index string
	docID func(value []byte) (string, error)
}

type indexer struct {
	es     *elasticsearch.Client
	routes map[string]route
}

func auditDocumentID(value []byte) (string, error) {
	var rec audit.Record
	if err := json.Unmarshal(value, &rec); err != nil {
		return "", err
	}
	return rec.DocumentID(), nil
}

func accessLogDocumentID(value []byte) (string, error) {
	var entry api.LogEntry
	if err := json.Unmarshal(value, &entry); err != nil {
		return "", err
	}
	return entry.Service + ":" + entry.RequestID, nil
}

func (idx *indexer) worker(ctx context.Context, jobs <-chan kafka.Message, workerID int) {
	for {
		select {
		case <-ctx.Done():
			log.Infof("[auditkeeper][workerID:%d] context cancelled, exiting worker", workerID)
			return

		case msg, ok := <-jobs:
			if !ok {
				log.Infof("[auditkeeper][workerID:%d] jobs channel closed, exiting worker", workerID)
				return
			}

			id, err := idx.index(ctx, msg)
			if err != nil {
				log.Errorf("[auditkeeper][workerID:%d] failed to index document: %v", workerID, err)
				continue
			}
			log.Infof("[auditkeeper][workerID:%d][%s] record indexed", workerID, shorten(id))
		}
	}
}

// index stores msg in the index routed for its topic and returns the document id.
func (idx *indexer) index(ctx context.Context, msg kafka.Message) (string, error) {
	rt, ok := idx.routes[msg.Topic]
	if !ok {
		return "", fmt.Errorf("no index configured for topic %q", msg.Topic)
	}

	id, err := rt.docID(msg.Value)
	if err != nil {
		return "", fmt.Errorf("decode record: %w", err)
	}

	res, err := idx.es.Index(
		rt.index,
		bytes.NewReader(msg.Value),
		idx.es.Index.WithDocumentID(id),
		idx.es.Index.WithContext(ctx),
	)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", fmt.Errorf("elasticsearch: %s", res.Status())
	}
	return id, nil
}

func shorten(s string) string {
	if len(s) > 6 {
		return s[:6] + "..."
	}
	return s
}
