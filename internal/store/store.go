// Package store defines the document-store contract the rest of the
// application programs against.
//
// The API is deliberately Firestore-shaped: named collections holding
// schemaless documents, addressed by id or by a single field/value query.
// The service layer only ever sees this interface — the SQLite
// implementation lives in store/sqlite and can be swapped without touching
// business logic.
package store

import "context"

// Collection names used by the application.
const (
	Users = "users"
	Teas  = "teas"
	Brews = "brews"
)

// Document is a schemaless record body. The document id is NOT part of the
// body — it is the key the document is stored under.
type Document = map[string]any

// Record pairs a document with its id, as returned by Query.
type Record struct {
	ID  string
	Doc Document
}

// Store is the minimal get/query/add/set contract over a document database.
//
// ABSENT DOCUMENTS ARE EXPLICIT:
// Get returns (nil, false, nil) when no document exists under the id. A
// missing document is a normal outcome, not an error, and never comes back
// as an empty map — callers must be able to tell "absent" from "empty".
type Store interface {
	// Get fetches one document by id.
	Get(ctx context.Context, collection, id string) (Document, bool, error)

	// Query returns all documents in the collection whose field equals value.
	// An empty result is a nil or empty slice, not an error.
	Query(ctx context.Context, collection, field string, value any) ([]Record, error)

	// Add stores a document under a freshly generated id and returns the id.
	Add(ctx context.Context, collection string, doc Document) (string, error)

	// Set stores a document under a caller-chosen id, overwriting any
	// existing document with that id.
	Set(ctx context.Context, collection, id string, doc Document) error
}
