package models

import (
	"strings"
	"time"
)

// Role identifies which account variant a user record is.
type Role string

const (
	RoleClient    Role = "client"
	RoleTherapist Role = "therapist"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleTherapist, RoleAdmin:
		return true
	}
	return false
}

// User holds the identity fields shared by every account variant.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone" json:"phone"`
	Avatar    string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Validate checks the identity fields.
func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return NewValidationError("id", "is required")
	}
	if strings.TrimSpace(u.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if !strings.Contains(u.Email, "@") {
		return NewValidationError("email", "must be a valid email address")
	}
	return nil
}

// Account is the sealed sum type of role variants. Only *Client, *Therapist and
// *Admin implement it, so every record carries exactly one role.
type Account interface {
	Identity() *User
	Role() Role
	Validate() error
	isAccount()
}

// GenderPreference is the therapist gender a client prefers.
type GenderPreference string

const (
	PreferMale   GenderPreference = "male"
	PreferFemale GenderPreference = "female"
	PreferAny    GenderPreference = "any"
)

// Client is the account variant for customers booking sessions.
type Client struct {
	User            `bson:",inline"`
	Address         string           `bson:"address,omitempty" json:"address,omitempty"`
	City            string           `bson:"city,omitempty" json:"city,omitempty"`
	PreferredGender GenderPreference `bson:"preferredGender,omitempty" json:"preferredGender,omitempty"`
}

func (c *Client) Identity() *User { return &c.User }
func (c *Client) Role() Role      { return RoleClient }
func (c *Client) isAccount()      {}

func (c *Client) Validate() error {
	if err := c.User.Validate(); err != nil {
		return err
	}
	switch c.PreferredGender {
	case "", PreferMale, PreferFemale, PreferAny:
	default:
		return NewValidationError("preferredGender", "must be male, female or any")
	}
	return nil
}

// Admin is the account variant for platform operators.
type Admin struct {
	User `bson:",inline"`
}

func (a *Admin) Identity() *User { return &a.User }
func (a *Admin) Role() Role      { return RoleAdmin }
func (a *Admin) isAccount()      {}

func (a *Admin) Validate() error { return a.User.Validate() }

// NewAccount builds an empty variant for role carrying the given identity.
func NewAccount(role Role, u User) (Account, error) {
	switch role {
	case RoleClient:
		return &Client{User: u}, nil
	case RoleTherapist:
		return &Therapist{User: u, Photos: []string{}, Services: []Service{}}, nil
	case RoleAdmin:
		return &Admin{User: u}, nil
	}
	return nil, NewValidationError("role", "must be client, therapist or admin")
}
