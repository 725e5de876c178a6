package identity

import (
	"errors"

	"kisan_bazaar/models"
)

// ErrNoUser is returned by providers when nobody is signed in.
var ErrNoUser = errors.New("no signed-in user")

// User is the opaque identity supplied by the hosted auth service. The marketplace
// only reads it to stamp the farmer fields of new listings.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Anonymous   bool   `json:"is_anonymous"`
}

// FarmerName is the name shown on listings: display name, then email, then a generic label.
func (u *User) FarmerName() string {
	if u == nil {
		return models.DefaultFarmerName
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Email != "" {
		return u.Email
	}
	return models.DefaultFarmerName
}

// Provider supplies the current user.
type Provider interface {
	CurrentUser() (*User, error)
}

// Static always returns the same user. A nil user means signed out.
type Static struct {
	User *User
}

func (s Static) CurrentUser() (*User, error) {
	if s.User == nil {
		return nil, ErrNoUser
	}
	u := *s.User
	return &u, nil
}
