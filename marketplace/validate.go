package marketplace

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"kisan_bazaar/models"
)

// contactRegexp is a loose phone check: optional '+', then at least ten digits,
// spaces, hyphens or parentheses.
var contactRegexp = regexp.MustCompile(`^\+?[0-9\s\-()]{10,}$`)

// ValidListing is a form that passed validation, with parsed numbers.
type ValidListing struct {
	Crop        string
	Quantity    float64
	Price       float64
	Grade       string
	Location    string
	Contact     string
	Description string
	Image       string
}

// Validate checks a form in order: required fields, positive numbers, contact
// pattern, grade. The first failure is returned.
func Validate(form models.ListingForm) (*ValidListing, error) {
	required := []struct {
		name  string
		value string
	}{
		{"crop", form.Crop},
		{"quantity", form.Quantity},
		{"price", form.Price},
		{"location", form.Location},
		{"contact", form.Contact},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, &ValidationError{
				Field:   r.name,
				Message: fmt.Sprintf("Please fill in the '%s' field.", r.name),
			}
		}
	}

	quantity, qok := parsePositive(form.Quantity)
	price, pok := parsePositive(form.Price)
	if !qok || !pok {
		return nil, &ValidationError{
			Field:   "quantity,price",
			Message: "Quantity and Price must be valid positive numbers.",
		}
	}

	contact := strings.TrimSpace(form.Contact)
	if !contactRegexp.MatchString(contact) {
		return nil, &ValidationError{
			Field:   "contact",
			Message: "Please enter a valid contact number (at least 10 digits).",
		}
	}

	grade := strings.ToUpper(strings.TrimSpace(form.Grade))
	switch grade {
	case "":
		grade = models.GradeA
	case models.GradeA, models.GradeB, models.GradeC:
	default:
		return nil, &ValidationError{
			Field:   "grade",
			Message: "Quality grade must be A, B or C.",
		}
	}

	return &ValidListing{
		Crop:        strings.TrimSpace(form.Crop),
		Quantity:    quantity,
		Price:       price,
		Grade:       grade,
		Location:    strings.TrimSpace(form.Location),
		Contact:     contact,
		Description: strings.TrimSpace(form.Description),
		Image:       strings.TrimSpace(form.Image),
	}, nil
}

func parsePositive(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return 0, false
	}
	return n, true
}
