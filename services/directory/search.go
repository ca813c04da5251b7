package directory

import (
	"strings"

	"pijatku/models"
)

// Sentinel filter values meaning "no filter on this dimension".
const (
	AllCities   = "All Cities"
	AllGenders  = "All"
	AllServices = "All Services"
)

// Query is a directory search. Empty fields are not sentinels; use ParseQuery
// to normalise user input.
type Query struct {
	Text            string `json:"text"`
	City            string `json:"city"`
	Gender          string `json:"gender"`
	ServiceCategory string `json:"service"`
}

// ParseQuery fills empty filters with their sentinels and trims the free text.
func ParseQuery(text, city, gender, service string) Query {
	q := Query{
		Text:            strings.TrimSpace(text),
		City:            city,
		Gender:          gender,
		ServiceCategory: service,
	}
	if q.City == "" {
		q.City = AllCities
	}
	if q.Gender == "" {
		q.Gender = AllGenders
	}
	if q.ServiceCategory == "" {
		q.ServiceCategory = AllServices
	}
	return q
}

// Unfiltered reports whether q matches every therapist.
func (q Query) Unfiltered() bool {
	return q.Text == "" && q.City == AllCities && q.Gender == AllGenders && q.ServiceCategory == AllServices
}

// Search returns the therapists matching every filter of q, in input order.
// Filters other than the text are exact matches, so an unknown city or
// category yields no results rather than an error.
func Search(therapists []models.Therapist, q Query) []models.Therapist {
	needle := strings.ToLower(q.Text)
	out := make([]models.Therapist, 0, len(therapists))
	for i := range therapists {
		if matches(&therapists[i], q, needle) {
			out = append(out, therapists[i])
		}
	}
	return out
}

// Matches reports whether a single therapist satisfies q.
func Matches(t *models.Therapist, q Query) bool {
	return matches(t, q, strings.ToLower(q.Text))
}

func matches(t *models.Therapist, q Query, needle string) bool {
	if needle != "" && !strings.Contains(strings.ToLower(t.Name), needle) {
		return false
	}
	if q.City != AllCities && t.Location.City != q.City {
		return false
	}
	if q.Gender != AllGenders && string(t.Gender) != q.Gender {
		return false
	}
	if q.ServiceCategory != AllServices && !t.OffersCategory(models.ServiceCategory(q.ServiceCategory)) {
		return false
	}
	return true
}
