package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/sidedock/pkg/errors"
	"github.com/matzehuels/sidedock/pkg/observability"
)

const backendMongo = "mongo"

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI string
	// Database defaults to "sidedock", Collection to "layouts".
	Database   string
	Collection string
}

// MongoStore keeps one document per station, keyed by station ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and checks the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "sidedock"
	}
	if cfg.Collection == "" {
		cfg.Collection = "layouts"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongo")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Load reads the document saved for id.
func (s *MongoStore) Load(ctx context.Context, id string) (*Document, error) {
	start := time.Now()
	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		observability.Store().OnLoad(ctx, backendMongo, false, time.Since(start))
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "mongo find %s", id)
	}
	observability.Store().OnLoad(ctx, backendMongo, true, time.Since(start))
	return &doc, nil
}

// Save upserts doc by station ID.
func (s *MongoStore) Save(ctx context.Context, doc *Document) (err error) {
	start := time.Now()
	var raw bson.Raw
	defer func() { observability.Store().OnSave(ctx, backendMongo, len(raw), time.Since(start), err) }()

	if err := errors.ValidateStationID(doc.Station); err != nil {
		return err
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode layout %s", doc.Station)
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.Station}, raw, opts); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "mongo upsert %s", doc.Station)
	}
	return nil
}

// Delete removes the document saved for id.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	var err error
	if _, e := s.coll.DeleteOne(ctx, bson.M{"_id": id}); e != nil {
		err = errors.Wrap(errors.ErrCodeStore, e, "mongo delete %s", id)
	}
	observability.Store().OnDelete(ctx, backendMongo, err)
	return err
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
