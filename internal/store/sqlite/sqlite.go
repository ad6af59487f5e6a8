// Package sqlite implements the store.Store document contract on SQLite.
//
// WHY SQLITE FOR A DOCUMENT STORE?
// The application talks to the store in document terms (collections of
// schemaless bodies), but it doesn't need a document *server*. SQLite with a
// single table and its built-in JSON functions gives us the same contract as
// an embedded file — no infrastructure to run, and ":memory:" databases for
// tests.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// SQLite — works everywhere Go works.
//
// STORAGE LAYOUT:
// One table, documents(collection, id, body), keyed by (collection, id).
// body holds the JSON-encoded document. Field queries use json_extract, so
// Query("teas", "isPublic", true) becomes:
//
//	SELECT id, body FROM documents
//	WHERE collection = 'teas' AND json_extract(body, '$.isPublic') = 1
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/tea-journal/internal/store"

	// Blank import registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// compile-time check that *DB implements store.Store
var _ store.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and implements the document contract.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and prepares the schema.
//
// dbPath examples:
//   - "data/teajournal.db" → file-based database (persistent)
//   - ":memory:"           → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces a real connection now so a bad path fails at startup,
	// not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// the default locking mode would serialize the whole web server.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			body       TEXT NOT NULL,
			PRIMARY KEY (collection, id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}

// Get fetches one document by id.
// Returns (nil, false, nil) when the document does not exist — absence is a
// normal outcome here, never an error and never an empty map.
func (db *DB) Get(ctx context.Context, collection, id string) (store.Document, bool, error) {
	var body []byte
	err := db.conn.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: getting %s/%s: %w", collection, id, err)
	}

	doc, err := decodeBody(body)
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: decoding %s/%s: %w", collection, id, err)
	}
	return doc, true, nil
}

// Query returns all documents in the collection whose field equals value.
func (db *DB) Query(ctx context.Context, collection, field string, value any) ([]store.Record, error) {
	// json_extract surfaces JSON booleans as 0/1 integers, so the bound
	// parameter has to match.
	if b, ok := value.(bool); ok {
		if b {
			value = 1
		} else {
			value = 0
		}
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, body FROM documents
		 WHERE collection = ? AND json_extract(body, '$.' || ?) = ?`,
		collection, field, value,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying %s by %s: %w", collection, field, err)
	}
	defer rows.Close()

	var records []store.Record
	for rows.Next() {
		var id string
		var body []byte
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("sqlite: scanning %s row: %w", collection, err)
		}
		doc, err := decodeBody(body)
		if err != nil {
			return nil, fmt.Errorf("sqlite: decoding %s/%s: %w", collection, id, err)
		}
		records = append(records, store.Record{ID: id, Doc: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating %s rows: %w", collection, err)
	}

	return records, nil
}

// Add stores a document under a freshly generated xid and returns the id.
func (db *DB) Add(ctx context.Context, collection string, doc store.Document) (string, error) {
	id := xid.New().String()
	if err := db.Set(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

// Set stores a document under a caller-chosen id, overwriting any existing
// document with that id. Single-document write, no cross-document
// transaction — two concurrent Sets to the same id race and the last write
// wins.
func (db *DB) Set(ctx context.Context, collection, id string, doc store.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("sqlite: encoding %s/%s: %w", collection, id, err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET body = excluded.body`,
		collection, id, string(body),
	)
	if err != nil {
		return fmt.Errorf("sqlite: writing %s/%s: %w", collection, id, err)
	}
	return nil
}

func decodeBody(body []byte) (store.Document, error) {
	var doc store.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
