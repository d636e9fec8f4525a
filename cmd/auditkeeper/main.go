package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	LogLevel     string   `toml:"logLevel"`
	KafkaBrokers []string `toml:"kafkaBrokers"`
	KafkaGroupID string   `toml:"kafkaGroupID"`

	// AuditTopic carries censor audit records, LogTopic the HTTP access log.
	// Either may be empty.
	AuditTopic string `toml:"auditTopic"`
	AuditIndex string `toml:"auditIndex"`
	LogTopic   string `toml:"logTopic"`
	LogIndex   string `toml:"logIndex"`

	ElasticSearchNodes []string `toml:"elasticSearchNodes"`

	NumWorkers int `toml:"numWorkers"`
}

func main() {
	var (
		configPath string
		logLevel   string
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("[auditkeeper] shutting down gracefully...")
		cancel()
	}()

	flag.StringVar(&configPath, "config", "cmd/auditkeeper/config.toml", "Path to TOML config file")
	flag.StringVar(&logLevel, "log", "", "Log level: debug, info, warn, error.")
	flag.Parse()

	var cfg Config
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		log.Fatalf("[auditkeeper] failed to load config file %s: %v", configPath, err)
	}

	// Override config with flags if set
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = 1
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	}

	routes := cfg.routes()
	if len(routes) == 0 {
		log.Fatal("[auditkeeper] no topics configured, set auditTopic and/or logTopic")
	}
	topics := make([]string, 0, len(routes))
	for topic := range routes {
		topics = append(topics, topic)
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: cfg.ElasticSearchNodes})
	if err != nil {
		log.Fatalf("[auditkeeper] error creating the client: %s", err)
	}
	idx := &indexer{es: es, routes: routes}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		GroupTopics: topics,
		GroupID:     cfg.KafkaGroupID,
		MinBytes:    10e3, // 10KB
		MaxBytes:    10e6, // 10MB
	})
	defer r.Close()

	jobs := make(chan kafka.Message, cfg.NumWorkers*5) // buffer is needed to increase throughput
	var wg sync.WaitGroup
	wg.Add(cfg.NumWorkers)
	for workerID := 0; workerID < cfg.NumWorkers; workerID++ {
		go func(id int) {
			defer wg.Done()
			idx.worker(ctx, jobs, id)
		}(workerID)
	}

	log.Infof("[auditkeeper] accepting records from %v...", topics)
	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			log.Errorf("[auditkeeper] failed to read message from Kafka: %v", err)
			continue
		}
		log.Debugf("[auditkeeper] received message from %s: %s", msg.Topic, string(msg.Value))

		jobs <- msg
	}

	close(jobs)
	wg.Wait()
}

func (c *Config) routes() map[string]route {
	routes := make(map[string]route)
	if c.AuditTopic != "" {
		routes[c.AuditTopic] = route{index: orDefault(c.AuditIndex, "censor-audit"), docID: auditDocumentID}
	}
	if c.LogTopic != "" {
		routes[c.LogTopic] = route{index: orDefault(c.LogIndex, "logs"), docID: accessLogDocumentID}
	}
	return routes
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
