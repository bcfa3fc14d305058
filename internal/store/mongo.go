package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is the production document store. Ids are stored as string
// _id values so deterministic keys (daily_menu, userId_date) and
// generated ids share one representation.
//
// Change notifications fire on writes through this facade; with every
// client routed through the server that covers all mutations without
// requiring a replica set for change streams.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database

	hubMu sync.Mutex
	hubs  map[string]*hub
}

func OpenMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Mongo{
		client: client,
		db:     client.Database(database),
		hubs:   make(map[string]*hub),
	}, nil
}

func (m *Mongo) Collection(name string) Collection {
	return &mongoCollection{coll: m.db.Collection(name), hub: m.hubFor(name)}
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) hubFor(name string) *hub {
	m.hubMu.Lock()
	defer m.hubMu.Unlock()
	h, ok := m.hubs[name]
	if !ok {
		h = newHub()
		m.hubs[name] = h
	}
	return h
}

type mongoCollection struct {
	coll *mongo.Collection
	hub  *hub
}

func (c *mongoCollection) Create(ctx context.Context, doc Doc) (string, error) {
	id := primitive.NewObjectID().Hex()
	insert := withID(doc, id)
	if _, err := c.coll.InsertOne(ctx, insert); err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}
	c.notify()
	return id, nil
}

func (c *mongoCollection) Put(ctx context.Context, id string, doc Doc) error {
	_, err := c.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M(doc)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", id, err)
	}
	c.notify()
	return nil
}

func (c *mongoCollection) Get(ctx context.Context, id string) (Doc, error) {
	var doc Doc
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	delete(doc, "_id")
	return doc, nil
}

func (c *mongoCollection) GetAll(ctx context.Context, orderKey string) ([]Record, error) {
	opts := options.Find()
	if orderKey != "" {
		opts.SetSort(bson.D{{Key: orderKey, Value: -1}})
	}
	cur, err := c.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find all: %w", err)
	}
	return decodeCursor(ctx, cur)
}

func (c *mongoCollection) Find(ctx context.Context, field string, value any) ([]Record, error) {
	cur, err := c.coll.Find(ctx, bson.M{field: value})
	if err != nil {
		return nil, fmt.Errorf("find %s=%v: %w", field, value, err)
	}
	return decodeCursor(ctx, cur)
}

func (c *mongoCollection) Update(ctx context.Context, id string, partial Doc) error {
	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(partial)})
	if err != nil {
		return fmt.Errorf("update %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	c.notify()
	return nil
}

func (c *mongoCollection) Delete(ctx context.Context, id string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	c.notify()
	return nil
}

func (c *mongoCollection) Subscribe(orderKey string, cb func([]Record), onErr func(error)) func() {
	return c.hub.subscribe(orderKey, cb, onErr, c.fetch)
}

func (c *mongoCollection) notify() {
	c.hub.broadcast(c.fetch)
}

func (c *mongoCollection) fetch(orderKey string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return c.GetAll(ctx, orderKey)
}

func decodeCursor(ctx context.Context, cur *mongo.Cursor) ([]Record, error) {
	defer cur.Close(ctx)
	recs := []Record{}
	for cur.Next(ctx) {
		var doc Doc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		id, _ := doc["_id"].(string)
		delete(doc, "_id")
		recs = append(recs, Record{ID: id, Doc: doc})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}
	return recs, nil
}

func withID(doc Doc, id string) Doc {
	out := make(Doc, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	out["_id"] = id
	return out
}
