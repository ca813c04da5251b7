package models

import "strings"

// ServiceCategory is one of the fixed massage types.
type ServiceCategory string

const (
	CategorySwedish      ServiceCategory = "Swedish Massage"
	CategoryDeepTissue   ServiceCategory = "Deep Tissue"
	CategorySports       ServiceCategory = "Sports Massage"
	CategoryThai         ServiceCategory = "Thai Massage"
	CategoryAromatherapy ServiceCategory = "Aromatherapy"
	CategoryHotStone     ServiceCategory = "Hot Stone"
	CategoryReflexology  ServiceCategory = "Reflexology"
	CategoryPrenatal     ServiceCategory = "Prenatal Massage"
)

// ServiceCategories lists every category in display order.
var ServiceCategories = []ServiceCategory{
	CategorySwedish,
	CategoryDeepTissue,
	CategorySports,
	CategoryThai,
	CategoryAromatherapy,
	CategoryHotStone,
	CategoryReflexology,
	CategoryPrenatal,
}

func (c ServiceCategory) Valid() bool {
	for _, known := range ServiceCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Service is a treatment offered by a therapist.
type Service struct {
	ID          string          `bson:"id" json:"id"`
	Name        string          `bson:"name" json:"name"`
	Description string          `bson:"description" json:"description"`
	Duration    int             `bson:"duration" json:"duration"` // minutes
	Price       Rupiah          `bson:"price" json:"price"`
	Category    ServiceCategory `bson:"category" json:"category"`
}

func (s Service) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return NewValidationError("service.id", "is required")
	}
	if s.Duration <= 0 {
		return NewValidationError("service.duration", "must be positive")
	}
	if s.Price <= 0 {
		return NewValidationError("service.price", "must be positive")
	}
	if !s.Category.Valid() {
		return NewValidationError("service.category", "unknown category "+string(s.Category))
	}
	return nil
}
