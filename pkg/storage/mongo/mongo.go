package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const wordsCollection = "censor_words"

type Storage struct {
	client *mongo.Client
	dbName string
}

type wordDoc struct {
	Word string `bson:"_id"`
}

func New(ctx context.Context, conf *Config) (*Storage, error) {
	client, err := mongo.Connect(ctx, conf.Options())
	if err != nil {
		return nil, err
	}

	s := Storage{client: client, dbName: conf.DBName}
	if err := s.createCollection(ctx, wordsCollection); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Storage) Close() {
	s.client.Disconnect(context.Background())
}

// Words returns every stored word ordered alphabetically.
func (s *Storage) Words(ctx context.Context) ([]string, error) {
	coll := s.client.Database(s.dbName).Collection(wordsCollection)
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var docs []wordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	words := make([]string, 0, len(docs))
	for _, d := range docs {
		words = append(words, d.Word)
	}
	return words, nil
}

// AddWords upserts the words keyed by the word itself and returns how many were new.
func (s *Storage) AddWords(ctx context.Context, words []string) (int, error) {
	var models []mongo.WriteModel
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": w}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{"word": w}}).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return 0, nil
	}

	coll := s.client.Database(s.dbName).Collection(wordsCollection)
	res, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}

	return int(res.UpsertedCount), nil
}

// createCollection creates a collection with the given name in the database if it doesn't already exist.
func (s *Storage) createCollection(ctx context.Context, collName string) error {
	collExists, err := collectionExists(ctx, s.client.Database(s.dbName), collName)
	if err != nil {
		return err
	}

	if !collExists {
		err := s.client.Database(s.dbName).CreateCollection(ctx, collName)
		if err != nil {
			return err
		}
	}

	return nil
}

// collectionExists checks if a collection with the given name exists in the database.
func collectionExists(ctx context.Context, db *mongo.Database, collName string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return false, fmt.Errorf("failed to list collection names: %w", err)
	}

	for _, name := range names {
		if name == collName {
			return true, nil
		}
	}

	return false, nil
}
