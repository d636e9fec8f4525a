package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"censorship/pkg/storage"
	"censorship/pkg/storage/mongo"
	"censorship/pkg/storage/postgres"
	"censorship/pkg/text"
)

var importTarget string

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import word list files into a PostgreSQL or MongoDB store",
	Args:  cobra.MinimumNArgs(1),
	RunE:  importAction,
}

func init() {
	importCmd.Flags().StringVar(&importTarget, "to", "", "postgres:// or mongodb:// connection string, defaults to $CENSOR_WORDS_DB")
	rootCmd.AddCommand(importCmd)
}

func importAction(cmd *cobra.Command, args []string) error {
	var words []string
	for _, path := range args {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		words = append(words, text.ParseWords(string(b))...)
	}

	target := importTarget
	if target == "" {
		target = os.Getenv("CENSOR_WORDS_DB")
	}

	store, err := openStore(cmd.Context(), target)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.AddWords(cmd.Context(), words)
	if err != nil {
		return fmt.Errorf("add words: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d new words (%d read)\n", n, len(words))
	return nil
}

// openStore connects to target. Without a target the POSTGRES_* environment variables are
// tried first, then the MONGO_* ones.
func openStore(ctx context.Context, target string) (storage.WordStore, error) {
	if target == "" {
		if conf, err := postgres.NewConfig(); err == nil {
			log.Debugf("[censorctl] importing into postgres from environment: %v", conf)
			target = conf.ConString()
		}
	}

	switch {
	case target == "":
		conf, err := mongo.NewConfig()
		if err != nil {
			return nil, fmt.Errorf("no target store, set --to, CENSOR_WORDS_DB, POSTGRES_* or MONGO_* variables: %w", err)
		}
		log.Debugf("[censorctl] importing into mongo from environment: %s:%s/%s", conf.Host, conf.Port, conf.DBName)
		db, err := mongo.New(ctx, conf)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrConnectDB, err)
		}
		return db, nil

	case strings.HasPrefix(target, "postgres://"), strings.HasPrefix(target, "postgresql://"):
		db, err := postgres.New(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrConnectDB, err)
		}
		if err := db.Init(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
		return db, nil

	case strings.HasPrefix(target, "mongodb://"):
		conf, err := mongo.ParseURI(target)
		if err != nil {
			return nil, err
		}
		db, err := mongo.New(ctx, conf)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrConnectDB, err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported target %q, want postgres:// or mongodb://", target)
	}
}
