// Package storage persists catalog records and user preferences in MongoDB.
package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrmalikoffl/movies-req-bot/internal/catalog"
)

const searchLimit = 50

type Mongo struct {
	client *mongo.Client
	movies *mongo.Collection
	users  *mongo.Collection
}

func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	db := client.Database(database)
	m := &Mongo{
		client: client,
		movies: db.Collection("movies"),
		users:  db.Collection("users"),
	}
	m.ensureIndexes(ctx)
	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) {
	_, _ = m.movies.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{bson.E{Key: "file_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = m.movies.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{bson.E{Key: "title", Value: "text"}},
	})
	_, _ = m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{bson.E{Key: "chat_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// AddMovie inserts a catalog record. Returns false when a record with the
// same file_id already exists.
func (m *Mongo) AddMovie(ctx context.Context, movie *catalog.Movie) (bool, error) {
	err := m.movies.FindOne(ctx, bson.M{"file_id": movie.FileID}).Err()
	if err == nil {
		return false, nil
	}
	if err != mongo.ErrNoDocuments {
		return false, err
	}
	movie.CreatedAt = time.Now()
	if _, err := m.movies.InsertOne(ctx, movie); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m *Mongo) GetMovieByFileID(ctx context.Context, fileID string) (*catalog.Movie, error) {
	var movie catalog.Movie
	err := m.movies.FindOne(ctx, bson.M{"file_id": fileID}).Decode(&movie)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// SearchMovies runs a tokenized catalog search: text match on title terms,
// exact year, language field match. At most 50 records are returned.
func (m *Mongo) SearchMovies(ctx context.Context, q catalog.Query) ([]catalog.Movie, error) {
	filter := searchFilter(q)
	opts := options.Find().SetLimit(searchLimit)
	cur, err := m.movies.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	movies := make([]catalog.Movie, 0, 16)
	for cur.Next(ctx) {
		var movie catalog.Movie
		if err := cur.Decode(&movie); err != nil {
			continue
		}
		movies = append(movies, movie)
	}
	return movies, cur.Err()
}

func searchFilter(q catalog.Query) bson.M {
	filter := bson.M{}
	if q.Title != "" {
		filter["$text"] = bson.M{"$search": q.Title}
	}
	if q.Year != 0 {
		filter["year"] = q.Year
	}
	if q.Language != "" {
		filter["language"] = q.Language
	}
	return filter
}

// EnsureUser registers a chat id once, leaving existing settings untouched.
func (m *Mongo) EnsureUser(ctx context.Context, chatID int64) error {
	_, err := m.users.UpdateOne(ctx,
		bson.M{"chat_id": chatID},
		bson.M{"$setOnInsert": bson.M{"chat_id": chatID}},
		options.Update().SetUpsert(true),
	)
	return err
}

// UpdateUserSettings patches only the provided fields. Nil pointers leave
// the stored value as-is; empty strings clear it.
func (m *Mongo) UpdateUserSettings(ctx context.Context, chatID int64, thumbnail, prefix, caption *string) error {
	set := bson.M{}
	if thumbnail != nil {
		set["thumbnail_file_id"] = *thumbnail
	}
	if prefix != nil {
		set["prefix"] = *prefix
	}
	if caption != nil {
		set["caption"] = *caption
	}
	if len(set) == 0 {
		return nil
	}
	_, err := m.users.UpdateOne(ctx,
		bson.M{"chat_id": chatID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	return err
}

func (m *Mongo) GetUserSettings(ctx context.Context, chatID int64) (*catalog.UserSettings, error) {
	var settings catalog.UserSettings
	err := m.users.FindOne(ctx, bson.M{"chat_id": chatID}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return &catalog.UserSettings{ChatID: chatID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

type Stats struct {
	Movies int64
	Users  int64
}

func (m *Mongo) Stats(ctx context.Context) (Stats, error) {
	movies, err := m.movies.CountDocuments(ctx, bson.M{})
	if err != nil {
		return Stats{}, err
	}
	users, err := m.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return Stats{}, err
	}
	return Stats{Movies: movies, Users: users}, nil
}
