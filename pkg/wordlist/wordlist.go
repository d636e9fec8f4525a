// Package wordlist resolves configured dictionary sources into their contents.
//
// A source is a file path, an http(s) URL, a postgres:// or mongodb:// connection
// string, or memory:<name> for an in-process store.
package wordlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"censorship/pkg/storage"
	"censorship/pkg/storage/mongo"
	"censorship/pkg/storage/postgres"
)

var ErrUnsupportedSource = errors.New("unsupported word list source")

const (
	defaultTimeout = 10 * time.Second
	maxBodySize    = 32 << 20
)

type Loader struct {
	// BaseDir resolves relative file paths.
	BaseDir string
	// Client fetches http(s) sources. http.DefaultClient semantics with Timeout when nil.
	Client  *http.Client
	Timeout time.Duration
	// Stores serves memory:<name> sources.
	Stores map[string]storage.WordStore
}

// Load resolves every source. A failing source is logged, reported in the returned
// errors and skipped; the contents of the others are returned in source order.
func (l *Loader) Load(ctx context.Context, sources []string) ([]string, []error) {
	var (
		contents []string
		errs     []error
	)

	for _, src := range sources {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}

		content, err := l.load(ctx, src)
		if err != nil {
			log.Errorf("[wordlist] error loading dictionary %s: %v", redactSource(src), err)
			errs = append(errs, fmt.Errorf("%s: %w", redactSource(src), err))
			continue
		}
		contents = append(contents, content)
	}

	return contents, errs
}

func (l *Loader) load(ctx context.Context, src string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout())
	defer cancel()

	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetch(ctx, src)
	case strings.HasPrefix(src, "postgres://"), strings.HasPrefix(src, "postgresql://"):
		return loadPostgres(ctx, src)
	case strings.HasPrefix(src, "mongodb://"):
		return loadMongo(ctx, src)
	case strings.HasPrefix(src, "memory:"):
		store, ok := l.Stores[strings.TrimPrefix(src, "memory:")]
		if !ok {
			return "", fmt.Errorf("%w: no store named %q", ErrUnsupportedSource, src)
		}
		return fromStore(ctx, store)
	case strings.Contains(src, "://"):
		return "", ErrUnsupportedSource
	default:
		return l.readFile(src)
	}
}

func (l *Loader) timeout() time.Duration {
	if l.Timeout <= 0 {
		return defaultTimeout
	}
	return l.Timeout
}

// readFile reads a word list file, creating an empty one when it does not exist.
func (l *Loader) readFile(path string) (string, error) {
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Warnf("[wordlist] dictionary file not found: %s, creating a new one", path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return "", err
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: l.timeout()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func loadPostgres(ctx context.Context, conStr string) (string, error) {
	db, err := postgres.New(ctx, conStr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", storage.ErrConnectDB, err)
	}
	defer db.Close()

	return fromStore(ctx, db)
}

func loadMongo(ctx context.Context, uri string) (string, error) {
	conf, err := mongo.ParseURI(uri)
	if err != nil {
		return "", err
	}

	db, err := mongo.New(ctx, conf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", storage.ErrConnectDB, err)
	}
	defer db.Close()

	return fromStore(ctx, db)
}

// fromStore renders stored words in word list file form.
func fromStore(ctx context.Context, store storage.WordStore) (string, error) {
	words, err := store.Words(ctx)
	if err != nil {
		return "", err
	}
	return strings.Join(words, "\n"), nil
}

// redactSource hides credentials of connection strings in log messages.
func redactSource(src string) string {
	i := strings.Index(src, "://")
	if i < 0 {
		return src
	}
	rest := src[i+3:]
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return src
	}
	return src[:i+3] + "***@" + rest[at+1:]
}
