package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"censorship/pkg/api"
	"censorship/pkg/audit"
	"censorship/pkg/censor"
	"censorship/pkg/config"
	"censorship/pkg/pipeline"
	"censorship/pkg/wordlist"
)

func main() {
	var (
		configPath string
		httpAddr   string
		logLevel   string
		kafkaAddr  string
		kafkaTopic string
		auditTopic string
		kafkaBatch int
	)

	flag.StringVar(&configPath, "servconf", "cmd/server/config.toml", "Path to TOML config file")
	flag.StringVar(&httpAddr, "http", "", "HTTP server address in the form 'host:port'.")
	flag.StringVar(&logLevel, "log", "", "Log level: debug, info, warn, error.")
	flag.StringVar(&kafkaAddr, "kafka", "", "Kafka server address in the form 'host:port'.")
	flag.StringVar(&kafkaTopic, "topic", "", "Kafka topic for access logs.")
	flag.StringVar(&auditTopic, "audit", "", "Kafka topic for censor audit records.")
	flag.IntVar(&kafkaBatch, "batch", 0, "Kafka batch size.")
	flag.Parse()

	// Secrets such as database passwords may come from a .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("[server] failed to load .env file: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("[server] failed to load config file %s: %v", configPath, err)
	}

	// Override config with flags if set
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if kafkaAddr != "" {
		cfg.Kafka.Addr = kafkaAddr
	}
	if kafkaTopic != "" {
		cfg.Kafka.LogTopic = kafkaTopic
	}
	if auditTopic != "" {
		cfg.Kafka.AuditTopic = auditTopic
	}
	if kafkaBatch != 0 {
		cfg.Kafka.Batch = kafkaBatch
	}

	if !strings.Contains(cfg.HTTPAddr, ":") {
		log.Warn("[server] use ':' before port number, e.g. ':8080'")
	}

	switch cfg.LogLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opts []censor.Option
	logWriter := newKafkaWriter(cfg.Kafka.Addr, cfg.Kafka.LogTopic, cfg.Kafka.Batch)
	if logWriter == nil {
		log.Warnf("[server] kafka was not configured, logs will not be sent to Kafka")
	}
	auditWriter := newKafkaWriter(cfg.Kafka.Addr, cfg.Kafka.AuditTopic, cfg.Kafka.Batch)
	if auditWriter != nil {
		publisher := audit.New(cfg.ServiceName, auditWriter)
		opts = append(opts, censor.WithObserver(publisher.Observer(api.GetRequestID)))
	}

	loader := &wordlist.Loader{BaseDir: cfg.BaseDir}
	pl, err := pipeline.New(ctx, cfg, loader, opts...)
	if err != nil {
		log.Errorf("[server] some dictionaries failed to load: %v", err)
	}

	api, err := api.New(cfg.ServiceName, pl.Censor, pl.Text, logWriter)
	if err != nil {
		log.Fatalf("[server] failed to create API: %v", err)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Infof("[server] starting on port %v", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] failed to start: %v", err)
			return
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigChan {
		if sig != syscall.SIGHUP {
			break
		}
		reload(ctx, configPath, pl)
	}

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[server] HTTP server shutdown error: %v", err)
	} else {
		log.Info("[server] HTTP server shut down gracefully")
	}

	for _, w := range []*kafka.Writer{logWriter, auditWriter} {
		if w == nil {
			continue
		}
		if err := w.Close(); err != nil {
			log.Errorf("[server] failed to close Kafka writer for topic %s: %v", w.Topic, err)
		}
	}
}

// reload re-reads the config file and swaps the text censor. A config that does not
// load keeps the current filter in place.
func reload(ctx context.Context, configPath string, pl *pipeline.Pipeline) {
	log.Infof("[server] SIGHUP received, reloading text censor")

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Errorf("[server] reload aborted, failed to load config file %s: %v", configPath, err)
		return
	}

	err = pl.Reload(ctx, cfg)
	switch {
	case errors.Is(err, pipeline.ErrTextDisabled):
		log.Warnf("[server] reload skipped: %v", err)
	case err != nil:
		log.Errorf("[server] some dictionaries failed to load on reload: %v", err)
	}
}

func newKafkaWriter(addr, topic string, batch int) *kafka.Writer {
	if addr == "" || topic == "" {
		return nil
	}

	w := &kafka.Writer{
		Addr:      kafka.TCP(addr),
		Topic:     topic,
		BatchSize: batch,
	}
	if err := createTopic(w.Addr.String(), w.Topic); err != nil {
		log.Warnf("[server] failed to create Kafka topic %s: %v", topic, err)
	}
	return w
}

func createTopic(broker, topic string) error {
	conn, err := kafka.DialContext(context.Background(), "tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
}
