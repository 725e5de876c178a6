package models

// ListingForm holds the raw, unvalidated values a user typed into the add-listing form.
type ListingForm struct {
	Crop        string `json:"crop" yaml:"crop"`
	Quantity    string `json:"quantity" yaml:"quantity"`
	Price       string `json:"price" yaml:"price"`
	Grade       string `json:"grade" yaml:"grade"`
	Location    string `json:"location" yaml:"location"`
	Contact     string `json:"contact" yaml:"contact"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image" yaml:"image"`
}

// DefaultForm is the cleared form: everything empty except grade A and the caller's
// current location hint.
func DefaultForm(locationHint string) ListingForm {
	return ListingForm{
		Grade:    GradeA,
		Location: locationHint,
	}
}
