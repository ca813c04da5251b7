package models

import "strings"

// Gender of a therapist.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Therapist is the account variant for massage providers listed in the directory.
type Therapist struct {
	User           `bson:",inline"`
	Gender         Gender    `bson:"gender" json:"gender"`
	Bio            string    `bson:"bio" json:"bio"`
	Photos         []string  `bson:"photos" json:"photos"` // first is the primary photo
	Services       []Service `bson:"services" json:"services"`
	Location       Location  `bson:"location" json:"location"`
	Rating         float64   `bson:"rating" json:"rating"`
	ReviewCount    int       `bson:"reviewCount" json:"reviewCount"`
	IsAvailable    bool      `bson:"isAvailable" json:"isAvailable"`
	HourlyRate     Rupiah    `bson:"hourlyRate" json:"hourlyRate"`
	Experience     int       `bson:"experience" json:"experience"`
	Certifications []string  `bson:"certifications" json:"certifications"`
	Languages      []string  `bson:"languages" json:"languages"`
	TotalEarnings  Rupiah    `bson:"totalEarnings" json:"totalEarnings"`
	PendingPayout  Rupiah    `bson:"pendingPayout" json:"pendingPayout"`

	// ReservedPayout is the part of PendingPayout held by outstanding payout requests.
	ReservedPayout   Rupiah   `bson:"reservedPayout" json:"reservedPayout"`
	// CreditedBookings lists the completed bookings already folded into the earnings.
	CreditedBookings []string `bson:"creditedBookings,omitempty" json:"-"`
}

func (t *Therapist) Identity() *User { return &t.User }
func (t *Therapist) Role() Role      { return RoleTherapist }
func (t *Therapist) isAccount()      {}

// PrimaryPhoto returns the first photo, or the avatar when no photos are set.
func (t *Therapist) PrimaryPhoto() string {
	if len(t.Photos) > 0 {
		return t.Photos[0]
	}
	return t.Avatar
}

// AvailablePayout is what the therapist can still request to be paid out.
func (t *Therapist) AvailablePayout() Rupiah {
	return t.PendingPayout - t.ReservedPayout
}

// OffersCategory reports whether at least one offered service is in category.
func (t *Therapist) OffersCategory(category ServiceCategory) bool {
	for _, s := range t.Services {
		if s.Category == category {
			return true
		}
	}
	return false
}

// FindService returns the offered service with the given id.
func (t *Therapist) FindService(serviceID string) (Service, bool) {
	for _, s := range t.Services {
		if s.ID == serviceID {
			return s, true
		}
	}
	return Service{}, false
}

func (t *Therapist) Validate() error {
	if err := t.User.Validate(); err != nil {
		return err
	}
	if t.Gender != GenderMale && t.Gender != GenderFemale {
		return NewValidationError("gender", "must be male or female")
	}
	if t.Rating < 0 || t.Rating > 5 {
		return NewValidationError("rating", "must be between 0 and 5")
	}
	if t.ReviewCount < 0 {
		return NewValidationError("reviewCount", "must not be negative")
	}
	if t.HourlyRate <= 0 {
		return NewValidationError("hourlyRate", "must be positive")
	}
	if t.Experience < 0 {
		return NewValidationError("experience", "must not be negative")
	}
	if t.TotalEarnings < 0 || t.PendingPayout < 0 {
		return NewValidationError("earnings", "must not be negative")
	}
	if t.PendingPayout > t.TotalEarnings {
		return NewValidationError("pendingPayout", "must not exceed totalEarnings")
	}
	if t.ReservedPayout < 0 || t.ReservedPayout > t.PendingPayout {
		return NewValidationError("reservedPayout", "must be between 0 and pendingPayout")
	}
	if err := t.Location.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(t.Services))
	for _, s := range t.Services {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.ID] {
			return NewValidationError("services", "duplicate service id "+s.ID)
		}
		seen[s.ID] = true
	}
	for _, p := range t.Photos {
		if strings.TrimSpace(p) == "" {
			return NewValidationError("photos", "must not contain empty references")
		}
	}
	return nil
}
