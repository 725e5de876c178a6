package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"kisan_bazaar/models"
)

// SQLiteStore is a local stand-in for the hosted collection, used for development
// and offline demos. Ids and timestamps are assigned here, never by the caller.
type SQLiteStore struct {
	db         *sql.DB
	collection string
}

func NewSQLiteStore(dbPath, collection string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db, collection: collection}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		collection TEXT NOT NULL,
		data JSON NOT NULL,
		date_posted TEXT DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_documents_collection_posted ON documents(collection, date_posted);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) List(ctx context.Context) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, data, date_posted
		FROM documents
		WHERE collection = ?
		ORDER BY date_posted IS NULL, date_posted DESC, rowid DESC`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var (
			id     string
			data   string
			posted sql.NullString
		)
		if err := rows.Scan(&id, &data, &posted); err != nil {
			return nil, fmt.Errorf("sqlite: scan row: %w", err)
		}
		fields, err := decodeData([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		if posted.Valid {
			fields[models.FieldDatePosted] = posted.String
		} else {
			delete(fields, models.FieldDatePosted)
		}
		docs = append(docs, models.Document{ID: id, Fields: fields})
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) Create(ctx context.Context, fields map[string]any) (string, error) {
	data, err := encodeData(fields)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, collection, data) VALUES (?, ?, ?)`,
		id, s.collection, string(data),
	)
	if err != nil {
		return "", fmt.Errorf("sqlite: create: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
