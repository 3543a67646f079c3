package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/cardbuilder/pkg/card"
)

// CardsCollection is the collection name used by [ConnectMongo].
const CardsCollection = "cards"

// Collection is the subset of *mongo.Collection the store uses.
type Collection interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
	ReplaceOne(ctx context.Context, filter, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// MongoStore keeps cards in a MongoDB collection. The card is stored as its
// JSON body next to the summary fields, so the layout's own encoding rules
// apply unchanged.
type MongoStore struct {
	coll   Collection
	client *mongo.Client
}

type mongoDoc struct {
	Summary `bson:",inline"`
	Body    string `bson:"body"`
}

// ConnectMongo connects to uri and uses the cards collection of database.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = "cardbuilder"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, wrap("mongo", "connect", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, wrap("mongo", "connect", err)
	}
	s := NewMongoStore(client.Database(database).Collection(CardsCollection))
	s.client = client
	return s, nil
}

// NewMongoStore uses an existing collection.
func NewMongoStore(coll Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Get(ctx context.Context, id string) (c card.Card, err error) {
	defer observe(ctx, "mongo", "get", time.Now(), &err)
	var doc mongoDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return card.Card{}, notFound(id)
	}
	if err != nil {
		return card.Card{}, wrap("mongo", "get", err)
	}
	return card.Decode([]byte(doc.Body), card.FormatJSON)
}

func (s *MongoStore) Put(ctx context.Context, c card.Card) (err error) {
	defer observe(ctx, "mongo", "put", time.Now(), &err)
	if c, err = prepare(c); err != nil {
		return err
	}
	body, err := json.Marshal(c)
	if err != nil {
		return wrap("mongo", "put", err)
	}
	doc := mongoDoc{Summary: Summarize(c), Body: string(body)}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, doc, options.Replace().SetUpsert(true))
	return wrap("mongo", "put", err)
}

func (s *MongoStore) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, "mongo", "delete", time.Now(), &err)
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap("mongo", "delete", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) (out []Summary, err error) {
	defer observe(ctx, "mongo", "list", time.Now(), &err)
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"body": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrap("mongo", "list", err)
	}
	defer cur.Close(ctx)

	out = []Summary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrap("mongo", "list", err)
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
