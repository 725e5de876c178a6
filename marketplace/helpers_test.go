package marketplace

import (
	"context"
	"sync"
	"time"

	"kisan_bazaar/models"
)

var (
	t1 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 = time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	t3 = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
)

func listing(id, crop string, price float64, posted time.Time) models.Listing {
	return models.Listing{
		ID:         id,
		Crop:       crop,
		Price:      price,
		DatePosted: posted,
		Category:   models.DefaultCategory,
		Status:     models.ListingStatusActive,
	}
}

func doc(id, crop string, price float64, posted time.Time) models.Document {
	return models.Document{
		ID: id,
		Fields: map[string]any{
			models.FieldCrop:       crop,
			models.FieldPrice:      price,
			models.FieldDatePosted: posted,
			models.FieldFarmer:     "Ramesh",
			models.FieldLocation:   "Nashik, Maharashtra",
			models.FieldCategory:   models.DefaultCategory,
		},
	}
}

func crops(ls []models.Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Crop
	}
	return out
}

// fakeCollection records every call in order. listFn, when set, is given the
// 1-based call number.
type fakeCollection struct {
	mu        sync.Mutex
	docs      []models.Document
	listErr   error
	createErr error
	listFn    func(call int) ([]models.Document, error)
	calls     []string
	created   []map[string]any
	listCalls int
}

func (f *fakeCollection) List(ctx context.Context) ([]models.Document, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	f.calls = append(f.calls, "list")
	fn := f.listFn
	docs := append([]models.Document(nil), f.docs...)
	err := f.listErr
	f.mu.Unlock()

	if fn != nil {
		return fn(call)
	}
	return docs, err
}

func (f *fakeCollection) Create(ctx context.Context, fields map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, fields)
	// the server stamps the new document and puts it first
	stored := map[string]any{models.FieldDatePosted: t3.Add(time.Hour)}
	for k, v := range fields {
		stored[k] = v
	}
	f.docs = append([]models.Document{{ID: "new-1", Fields: stored}}, f.docs...)
	return "new-1", nil
}

func (f *fakeCollection) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
