package models

// IndonesianCities are the cities the directory can be filtered by.
var IndonesianCities = []string{
	"Jakarta",
	"Bogor",
	"Tangerang",
	"Bekasi",
	"Depok",
	"Bandung",
	"Malang",
	"Samarinda",
	"Surabaya",
	"Semarang",
	"Bali",
	"Makassar",
	"Medan",
	"Palembang",
}

// IsKnownCity reports whether city is one of IndonesianCities (case-sensitive).
func IsKnownCity(city string) bool {
	for _, c := range IndonesianCities {
		if c == city {
			return true
		}
	}
	return false
}

// Location of a therapist. City is not restricted to IndonesianCities, but
// only those cities can be selected as a directory filter.
type Location struct {
	City      string  `bson:"city" json:"city"`
	District  string  `bson:"district,omitempty" json:"district,omitempty"`
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return NewValidationError("location.latitude", "must be between -90 and 90")
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return NewValidationError("location.longitude", "must be between -180 and 180")
	}
	return nil
}
