package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"kisan_bazaar/config"
	"kisan_bazaar/models"
)

const documentsTable = "documents"

// SupabaseStore reads and writes the documents table through the hosted REST API.
type SupabaseStore struct {
	url        string
	anonKey    string
	token      string
	collection string
	client     *http.Client
}

// NewSupabaseStore builds a REST store. accessToken, when set, is sent instead of the
// anon key so row-level security sees the signed-in user.
func NewSupabaseStore(cfg *config.SupabaseConfig, collection string, client *http.Client, accessToken string) *SupabaseStore {
	return &SupabaseStore{
		url:        strings.TrimRight(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		token:      accessToken,
		collection: collection,
		client:     client,
	}
}

type documentRow struct {
	ID         string          `json:"id,omitempty"`
	Collection string          `json:"collection,omitempty"`
	Data       json.RawMessage `json:"data"`
	DatePosted *string         `json:"date_posted,omitempty"`
}

func (s *SupabaseStore) endpoint(q url.Values) string {
	u := s.url + "/rest/v1/" + documentsTable
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (s *SupabaseStore) setHeaders(req *http.Request) {
	bearer := s.anonKey
	if s.token != "" {
		bearer = s.token
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
}

func (s *SupabaseStore) List(ctx context.Context) ([]models.Document, error) {
	q := url.Values{}
	q.Set("select", "id,data,date_posted")
	q.Set("collection", "eq."+s.collection)
	q.Set("order", "date_posted.desc.nullslast")

	req, err := http.NewRequestWithContext(ctx, "GET", s.endpoint(q), nil)
	if err != nil {
		return nil, err
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("supabase error %d: %s", resp.StatusCode, string(body))
	}

	var rows []documentRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}

	docs := make([]models.Document, 0, len(rows))
	for _, r := range rows {
		fields, err := decodeData(r.Data)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", r.ID, err)
		}
		if r.DatePosted != nil {
			fields[models.FieldDatePosted] = *r.DatePosted
		} else {
			delete(fields, models.FieldDatePosted)
		}
		docs = append(docs, models.Document{ID: r.ID, Fields: fields})
	}
	return docs, nil
}

func (s *SupabaseStore) Create(ctx context.Context, fields map[string]any) (string, error) {
	data, err := encodeData(fields)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(documentRow{Collection: s.collection, Data: data})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint(nil), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("supabase error %d: %s", resp.StatusCode, string(respBody))
	}

	var created []documentRow
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode created row: %w", err)
	}
	if len(created) == 0 || created[0].ID == "" {
		return "", fmt.Errorf("supabase returned no id for created document")
	}
	return created[0].ID, nil
}

func (s *SupabaseStore) Close() error {
	return nil
}
