package marketplace

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kisan_bazaar/models"
)

func TestNormalize_CoercesMissingAndMalformed(t *testing.T) {
	l := Normalize(models.Document{ID: "x", Fields: map[string]any{
		models.FieldPrice:    "2400",
		models.FieldRating:   nil,
		models.FieldQuantity: true,
		models.FieldReviews:  "many",
	}})

	assert.Equal(t, "x", l.ID)
	assert.Zero(t, l.Price)
	assert.Zero(t, l.Rating)
	assert.Zero(t, l.Quantity)
	assert.Zero(t, l.Reviews)
	assert.Equal(t, "", l.Crop)
	assert.Equal(t, "", l.Farmer)
	assert.Equal(t, "", l.Location)
	assert.Equal(t, Epoch, l.DatePosted)
	assert.True(t, l.Pending)
}

func TestNormalize_KeepsNumbers(t *testing.T) {
	l := Normalize(models.Document{ID: "y", Fields: map[string]any{
		models.FieldCrop:       "Soybean",
		models.FieldPrice:      json.Number("4650.5"),
		models.FieldQuantity:   int64(12),
		models.FieldRating:     float32(4.5),
		models.FieldReviews:    3,
		models.FieldViews:      float64(17),
		models.FieldFarmer:     "Sunita",
		models.FieldLocation:   "Indore, MP",
		models.FieldDatePosted: "2025-03-02T09:00:00Z",
	}})

	assert.Equal(t, "Soybean", l.Crop)
	assert.Equal(t, 4650.5, l.Price)
	assert.Equal(t, 12.0, l.Quantity)
	assert.Equal(t, 4.5, l.Rating)
	assert.Equal(t, 3, l.Reviews)
	assert.Equal(t, 17, l.Views)
	assert.True(t, t2.Equal(l.DatePosted))
	assert.False(t, l.Pending)
}

func TestToTime(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want time.Time
		ok   bool
	}{
		{"time value", t1, t1, true},
		{"rfc3339", "2025-03-01T09:00:00Z", t1, true},
		{"sql text", "2025-03-01 09:00:00", t1, true},
		{"postgres text", "2025-03-01 09:00:00+00:00", t1, true},
		{"epoch millis", float64(t1.UnixMilli()), t1, true},
		{"zero time", time.Time{}, time.Time{}, false},
		{"garbage", "next tuesday", time.Time{}, false},
		{"missing", nil, time.Time{}, false},
		{"object", map[string]any{"seconds": 1}, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toTime(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeAll_KeepsOrder(t *testing.T) {
	docs := []models.Document{doc("b", "Cotton", 7100, t2), doc("a", "Wheat", 2400, t1)}
	assert.Equal(t, []string{"Cotton", "Wheat"}, crops(NormalizeAll(docs)))
}
