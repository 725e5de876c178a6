package marketplace

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"kisan_bazaar/models"
)

// Epoch is substituted for missing or unparseable timestamps.
var Epoch = time.Unix(0, 0).UTC()

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Normalize coerces a raw collection record into a Listing. Numeric fields that are
// not numbers become 0, text fields that are absent become "", and an absent or
// unparseable timestamp becomes the epoch with Pending set.
func Normalize(doc models.Document) models.Listing {
	f := doc.Fields

	posted, ok := toTime(f[models.FieldDatePosted])
	if !ok {
		posted = Epoch
	}

	return models.Listing{
		ID:          doc.ID,
		Crop:        toString(f[models.FieldCrop]),
		Category:    toString(f[models.FieldCategory]),
		CropIcon:    toString(f[models.FieldCropIcon]),
		Quantity:    toNumber(f[models.FieldQuantity]),
		Price:       toNumber(f[models.FieldPrice]),
		Grade:       toString(f[models.FieldGrade]),
		Location:    toString(f[models.FieldLocation]),
		Contact:     toString(f[models.FieldContact]),
		Description: toString(f[models.FieldDescription]),
		Image:       toString(f[models.FieldImage]),
		Farmer:      toString(f[models.FieldFarmer]),
		FarmerID:    toString(f[models.FieldFarmerID]),
		FarmerImage: toString(f[models.FieldFarmerImage]),
		DatePosted:  posted,
		Pending:     !ok || !posted.After(Epoch),
		Status:      toString(f[models.FieldStatus]),
		Views:       int(toNumber(f[models.FieldViews])),
		Inquiries:   int(toNumber(f[models.FieldInquiries])),
		Rating:      toNumber(f[models.FieldRating]),
		Reviews:     int(toNumber(f[models.FieldReviews])),
	}
}

// NormalizeAll keeps the collection order.
func NormalizeAll(docs []models.Document) []models.Listing {
	out := make([]models.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, Normalize(d))
	}
	return out
}

// toNumber only accepts values that already are numbers; numeric-looking strings
// still coerce to 0.
func toNumber(v any) float64 {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int32:
		n = float64(x)
	case int64:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		n = f
	default:
		return 0
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x, true
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return *x, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
		return time.Time{}, false
	case float64, int, int64, json.Number:
		// epoch milliseconds
		return time.UnixMilli(int64(toNumber(x))).UTC(), true
	}
	return time.Time{}, false
}
