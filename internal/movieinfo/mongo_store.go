package movieinfo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore keeps movies in a MongoDB collection, one document per movie
// keyed by its ID.
type MongoStore struct {
	coll *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore creates a store over coll.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// Each streams matching documents from a cursor in insertion order.
func (s *MongoStore) Each(ctx context.Context, filter Filter, fn func(MovieInfo) error) error {
	query := bson.D{}
	if filter.Year != 0 {
		query = append(query, bson.E{Key: "year", Value: filter.Year})
	}

	cur, err := s.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return fmt.Errorf("find movie infos: %w", err)
	}
	defer cur.Close(context.WithoutCancel(ctx))

	for cur.Next(ctx) {
		var m MovieInfo
		if err := cur.Decode(&m); err != nil {
			return fmt.Errorf("decode movie info: %w", err)
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return cur.Err()
}

func (s *MongoStore) Get(ctx context.Context, id string) (MovieInfo, error) {
	var m MovieInfo
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return MovieInfo{}, ErrNotFound
	}
	if err != nil {
		return MovieInfo{}, fmt.Errorf("get movie info %s: %w", id, err)
	}
	return m, nil
}

func (s *MongoStore) Save(ctx context.Context, m MovieInfo) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: m.ID}},
		m,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save movie info %s: %w", m.ID, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("delete movie info %s: %w", id, err)
	}
	return nil
}
