package directory

import (
	"context"

	"pijatku/models"
)

// TherapistLister supplies the full directory. The user repository satisfies it.
type TherapistLister interface {
	ListTherapists(ctx context.Context) ([]models.Therapist, error)
}

// TherapistGetter resolves a single therapist by id.
type TherapistGetter interface {
	GetTherapist(ctx context.Context, id string) (*models.Therapist, error)
}

// DirectoryService is the browsable therapist directory.
type DirectoryService interface {
	Search(ctx context.Context, q Query) ([]models.Therapist, error)
	GetTherapist(ctx context.Context, id string) (*models.Therapist, error)
	Options() Options
}

// Options are the values offered as filter chips.
type Options struct {
	Cities     []string                 `json:"cities"`
	Genders    []string                 `json:"genders"`
	Categories []models.ServiceCategory `json:"categories"`
}
