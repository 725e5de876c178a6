package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"kisan_bazaar/models"
)

var csvHeader = []string{
	"id", "crop", "category", "quantity", "price", "grade", "location",
	"contact", "farmer", "date_posted", "status", "rating", "reviews",
}

// CSVWriter writes the current view of listings as CSV.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	c, err := newCSVWriter(f, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return c, nil
}

func newCSVWriter(w io.Writer, closer io.Closer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	cw.Flush()
	return &CSVWriter{closer: closer, writer: cw}, cw.Error()
}

func (c *CSVWriter) WriteListings(listings []models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		posted := ""
		if !l.Pending {
			posted = l.DatePosted.UTC().Format(time.RFC3339)
		}
		row := []string{
			l.ID,
			l.Crop,
			l.Category,
			strconv.FormatFloat(l.Quantity, 'f', -1, 64),
			strconv.FormatFloat(l.Price, 'f', -1, 64),
			l.Grade,
			l.Location,
			l.Contact,
			l.Farmer,
			posted,
			l.Status,
			strconv.FormatFloat(l.Rating, 'f', -1, 64),
			strconv.Itoa(l.Reviews),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if c.closer == nil {
		return c.writer.Error()
	}
	return c.closer.Close()
}
