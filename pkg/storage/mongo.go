package storage

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/observability"
)

const mongoBackend = "mongo"

// Mongo defaults.
const (
	DefaultMongoDatabase   = "jfreports"
	DefaultMongoCollection = "dashboards"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps one MongoDB document per dashboard, keyed by name. The
// dashboard itself is stored as a native sub-document so it can be queried
// from the shell.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	Info     `bson:",inline"`
	Document bson.D `bson:"document"`
}

// NewMongoStore connects to MongoDB, retrying while the server comes up.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongo")
	}
	err = RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongo")
	}
	return &MongoStore{client: client, coll: client.Database(cfg.Database).Collection(cfg.Collection)}, nil
}

// toBSON converts a document's JSON form into a BSON document.
func toBSON(body []byte) (bson.D, error) {
	var d bson.D
	if err := bson.UnmarshalExtJSON(body, false, &d); err != nil {
		return nil, err
	}
	return d, nil
}

// fromBSON converts a stored BSON document back to JSON.
func fromBSON(d bson.D) ([]byte, error) {
	return bson.MarshalExtJSON(d, false, false)
}

func (s *MongoStore) Get(ctx context.Context, name string) (dashboard.Document, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return dashboard.Document{}, err
	}
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		observability.Store().OnRead(ctx, mongoBackend, name, false)
		return dashboard.Document{}, notFound(name)
	}
	if err != nil {
		return dashboard.Document{}, storageErr(ctx, mongoBackend, "get", err, "read dashboard %q", name)
	}
	observability.Store().OnRead(ctx, mongoBackend, name, true)

	body, err := fromBSON(rec.Document)
	if err != nil {
		return dashboard.Document{}, errors.Wrap(errors.ErrCodeStorage, err, "stored dashboard %q is corrupt", name)
	}
	return decode(name, body)
}

func (s *MongoStore) Put(ctx context.Context, name string, doc dashboard.Document) error {
	body, info, err := encode(name, doc)
	if err != nil {
		return err
	}
	d, err := toBSON(body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "convert dashboard %q", name)
	}

	rec := mongoRecord{Info: info, Document: d}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return storageErr(ctx, mongoBackend, "put", err, "write dashboard %q", name)
	}
	observability.Store().OnWrite(ctx, mongoBackend, name, len(body))
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateDocumentName(name); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return storageErr(ctx, mongoBackend, "delete", err, "remove dashboard %q", name)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetProjection(bson.M{"document": 0}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storageErr(ctx, mongoBackend, "list", err, "list dashboards")
	}
	defer cur.Close(ctx)

	var out []Info
	if err := cur.All(ctx, &out); err != nil {
		return nil, storageErr(ctx, mongoBackend, "list", err, "list dashboards")
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
