package models

import (
	"net/url"
	"time"
)

// Listing status
const (
	ListingStatusActive = "active"
	ListingStatusSold   = "sold"
)

// Quality grades
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
)

const (
	DefaultFarmerName  = "Anonymous Farmer"
	DefaultFarmerImage = "👨‍🌾"

	placeholderImageBase = "https://placehold.co/400x240/9CAF88/2D5016?text="
)

// Listing is one farmer's offer to sell a quantity of a crop, after normalization.
type Listing struct {
	ID          string    `json:"id" db:"id"`
	Crop        string    `json:"crop" db:"crop"`
	Category    string    `json:"category" db:"category"`
	CropIcon    string    `json:"cropIcon" db:"crop_icon"`
	Quantity    float64   `json:"quantity" db:"quantity"` // quintals
	Price       float64   `json:"price" db:"price"`
	Grade       string    `json:"grade" db:"grade"`
	Location    string    `json:"location" db:"location"`
	Contact     string    `json:"contact" db:"contact"`
	Description string    `json:"description" db:"description"`
	Image       string    `json:"image,omitempty" db:"image"`
	Farmer      string    `json:"farmer" db:"farmer"`
	FarmerID    string    `json:"farmerId" db:"farmer_id"`
	FarmerImage string    `json:"farmerImage" db:"farmer_image"`
	DatePosted  time.Time `json:"datePosted" db:"date_posted"`
	Pending     bool      `json:"-" db:"-"` // server timestamp not resolved yet
	Status      string    `json:"status" db:"status"`
	Views       int       `json:"views" db:"views"`
	Inquiries   int       `json:"inquiries" db:"inquiries"`
	Rating      float64   `json:"rating" db:"rating"`
	Reviews     int       `json:"reviews" db:"reviews"`
}

// ImageURL returns the listing image, or a generated placeholder named after the crop.
func (l *Listing) ImageURL() string {
	if l.Image != "" {
		return l.Image
	}
	text := l.Crop
	if text == "" {
		text = "Crop"
	}
	return placeholderImageBase + url.PathEscape(text)
}

// Sold reports whether the listing can no longer be contacted or offered on.
func (l *Listing) Sold() bool {
	return l.Status == ListingStatusSold
}

// Document is a raw record as stored in the remote collection. Field values keep
// whatever type the backend produced; normalization happens in the pipeline.
type Document struct {
	ID     string
	Fields map[string]any
}

// Document field names, shared by every storage backend.
const (
	FieldCrop        = "crop"
	FieldCategory    = "category"
	FieldCropIcon    = "cropIcon"
	FieldQuantity    = "quantity"
	FieldPrice       = "price"
	FieldGrade       = "grade"
	FieldLocation    = "location"
	FieldContact     = "contact"
	FieldDescription = "description"
	FieldImage       = "image"
	FieldFarmer      = "farmer"
	FieldFarmerID    = "farmerId"
	FieldFarmerImage = "farmerImage"
	FieldDatePosted  = "datePosted"
	FieldStatus      = "status"
	FieldViews       = "views"
	FieldInquiries   = "inquiries"
	FieldRating      = "rating"
	FieldReviews     = "reviews"
)
