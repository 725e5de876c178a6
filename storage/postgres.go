package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"kisan_bazaar/models"
)

// PostgresStore talks to the documents table directly, bypassing the REST layer.
type PostgresStore struct {
	pool       *pgxpool.Pool
	collection string
}

func NewPostgresStore(ctx context.Context, connString, collection string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := &PostgresStore{pool: pool, collection: collection}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			collection  TEXT        NOT NULL,
			data        JSONB       NOT NULL DEFAULT '{}'::jsonb,
			date_posted TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_documents_collection_posted
			ON documents(collection, date_posted DESC);
	`)
	return err
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, data, date_posted
		FROM documents
		WHERE collection = $1
		ORDER BY date_posted DESC NULLS LAST`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("postgres: list: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var (
			id     string
			data   []byte
			posted *time.Time
		)
		if err := rows.Scan(&id, &data, &posted); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		fields, err := decodeData(data)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		if posted != nil {
			fields[models.FieldDatePosted] = *posted
		} else {
			delete(fields, models.FieldDatePosted)
		}
		docs = append(docs, models.Document{ID: id, Fields: fields})
	}
	return docs, rows.Err()
}

func (s *PostgresStore) Create(ctx context.Context, fields map[string]any) (string, error) {
	data, err := encodeData(fields)
	if err != nil {
		return "", err
	}

	var id string
	err = s.pool.QueryRow(ctx, `
		INSERT INTO documents (collection, data)
		VALUES ($1, $2)
		RETURNING id::text`, s.collection, data).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("postgres: create: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
