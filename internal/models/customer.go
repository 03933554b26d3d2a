package models

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxNameLength  = 255
	maxEmailLength = 254
	maxPhoneLength = 20
)

// CustomerSearchFilter holds filter criteria for customer list queries
type CustomerSearchFilter struct {
	Name         string     `json:"name,omitempty"`           // Case-insensitive substring
	Email        string     `json:"email,omitempty"`          // Case-insensitive substring
	CreatedAtGte *DateBound `json:"created_at_gte,omitempty"` // Created on or after
	CreatedAtLte *DateBound `json:"created_at_lte,omitempty"` // Created on or before
	PhonePattern string     `json:"phone_pattern,omitempty"`  // "+1", "starts_with:<p>", "contains:<s>" or a literal
}

type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Validate runs the model-level field checks that do not need storage.
// Keys of the returned map are column names.
func (c *Customer) Validate() map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(c.Name)
	switch {
	case name == "":
		errs["name"] = "This field cannot be blank."
	case len(name) > maxNameLength:
		errs["name"] = "Ensure this value has at most 255 characters."
	}

	email := strings.TrimSpace(c.Email)
	switch {
	case email == "":
		errs["email"] = "This field cannot be blank."
	case len(email) > maxEmailLength:
		errs["email"] = "Ensure this value has at most 254 characters."
	default:
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			errs["email"] = "Enter a valid email address."
		}
	}

	if c.Phone != nil && len(*c.Phone) > maxPhoneLength {
		errs["phone"] = "Ensure this value has at most 20 characters."
	}

	return errs
}
