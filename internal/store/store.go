package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"mess-mate/internal/config"
)

// ErrNotFound is returned by Get and Update when no document has the
// requested id.
var ErrNotFound = errors.New("document not found")

// Doc is a schema-less document. The store performs no validation on
// its contents.
type Doc map[string]any

// Record pairs a document with its collection-unique id.
type Record struct {
	ID  string `json:"id"`
	Doc Doc    `json:"doc"`
}

// Collection is the per-bucket contract of the document store.
//
// Update and Put merge the supplied fields into the existing document
// (last write wins per field); callers never resupply the full record.
// Subscribe delivers the full ordered result set on every change, not a
// diff: the callback replaces the caller's view of the collection. The
// returned cancel func releases the listener and tolerates being called
// more than once.
type Collection interface {
	Create(ctx context.Context, doc Doc) (string, error)
	Put(ctx context.Context, id string, doc Doc) error
	Get(ctx context.Context, id string) (Doc, error)
	GetAll(ctx context.Context, orderKey string) ([]Record, error)
	Find(ctx context.Context, field string, value any) ([]Record, error)
	Update(ctx context.Context, id string, partial Doc) error
	Delete(ctx context.Context, id string) error
	Subscribe(orderKey string, cb func([]Record), onErr func(error)) (cancel func())
}

type Store interface {
	Collection(name string) Collection
	Close(ctx context.Context) error
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "mongo":
		return OpenMongo(ctx, cfg.MongoURI, cfg.Database)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Encode converts a bson-tagged struct into a Doc so both backends can
// share the model types.
func Encode(v any) (Doc, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode doc: %w", err)
	}
	var d Doc
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("encode doc: %w", err)
	}
	return d, nil
}

// Decode fills a bson-tagged struct from a Doc.
func Decode(d Doc, v any) error {
	raw, err := bson.Marshal(d)
	if err != nil {
		return fmt.Errorf("decode doc: %w", err)
	}
	if err := bson.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode doc: %w", err)
	}
	return nil
}
