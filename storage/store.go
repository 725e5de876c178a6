package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"kisan_bazaar/config"
	"kisan_bazaar/httputil"
	"kisan_bazaar/models"
)

// DocumentStore is an app-scoped listing collection.
type DocumentStore interface {
	List(ctx context.Context) ([]models.Document, error)
	Create(ctx context.Context, fields map[string]any) (string, error)
	Close() error
}

// Open connects the backend selected in cfg, scoped to cfg.CollectionPath().
func Open(ctx context.Context, cfg *config.Config, clients *httputil.Clients, accessToken string) (DocumentStore, error) {
	switch cfg.Backend {
	case config.BackendSupabase:
		return NewSupabaseStore(&cfg.Supabase, cfg.CollectionPath(), clients.API, accessToken), nil
	case config.BackendPostgres:
		return NewPostgresStore(ctx, cfg.Supabase.DBURL, cfg.CollectionPath())
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.DBPath, cfg.CollectionPath())
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// decodeData turns a stored JSON document into fields, keeping numbers as json.Number.
func decodeData(data []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(data) == 0 {
		return fields, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// encodeData drops any client-supplied timestamp; only the store sets it.
func encodeData(fields map[string]any) ([]byte, error) {
	clean := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == models.FieldDatePosted {
			continue
		}
		clean[k] = v
	}
	return json.Marshal(clean)
}
