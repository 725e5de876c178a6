package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kisan_bazaar/models"
)

func validForm() models.ListingForm {
	return models.ListingForm{
		Crop:     " Basmati Rice ",
		Quantity: "25",
		Price:    "3850.50",
		Grade:    "b",
		Location: "Karnal, Haryana",
		Contact:  "+91 98765-43210",
	}
}

func TestValidate_OK(t *testing.T) {
	v, err := Validate(validForm())
	require.NoError(t, err)
	assert.Equal(t, "Basmati Rice", v.Crop)
	assert.Equal(t, 25.0, v.Quantity)
	assert.Equal(t, 3850.5, v.Price)
	assert.Equal(t, "B", v.Grade)
	assert.Equal(t, "+91 98765-43210", v.Contact)
}

func TestValidate_FirstMissingFieldReported(t *testing.T) {
	f := validForm()
	f.Price = "   "
	f.Contact = ""

	_, err := Validate(f)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "price", ve.Field)
	assert.Equal(t, "Please fill in the 'price' field.", ve.Error())
}

func TestValidate_Numbers(t *testing.T) {
	for _, bad := range []string{"0", "-3", "abc", "NaN", "Inf", "1e400"} {
		t.Run(bad, func(t *testing.T) {
			f := validForm()
			f.Quantity = bad
			_, err := Validate(f)
			require.Error(t, err)
			assert.Equal(t, "Quantity and Price must be valid positive numbers.", err.Error())
		})
	}

	f := validForm()
	f.Price = "0.0"
	_, err := Validate(f)
	assert.True(t, IsValidation(err))
}

func TestValidate_Contact(t *testing.T) {
	tests := []struct {
		contact string
		ok      bool
	}{
		{"9876543210", true},
		{"+91 98765 43210", true},
		{"(020) 2567-8910", true},
		{"12345", false},
		{"98765abc10", false},
		{"++919876543210", false},
	}

	for _, tt := range tests {
		f := validForm()
		f.Contact = tt.contact
		_, err := Validate(f)
		if tt.ok {
			assert.NoError(t, err, tt.contact)
		} else {
			assert.EqualError(t, err, "Please enter a valid contact number (at least 10 digits).", tt.contact)
		}
	}
}

func TestValidate_Grade(t *testing.T) {
	f := validForm()
	f.Grade = ""
	v, err := Validate(f)
	require.NoError(t, err)
	assert.Equal(t, "A", v.Grade)

	f.Grade = "D"
	_, err = Validate(f)
	assert.True(t, IsValidation(err))
}
