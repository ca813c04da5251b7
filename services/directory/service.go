package directory

import (
	"context"
	"errors"
	"fmt"

	"pijatku/database"
	"pijatku/models"

	"go.uber.org/zap"
)

// DefaultDirectoryService implements DirectoryService on top of a lister.
type DefaultDirectoryService struct {
	lister TherapistLister
	getter TherapistGetter
	logger *zap.Logger
}

func NewDirectoryService(lister TherapistLister, getter TherapistGetter, logger *zap.Logger) *DefaultDirectoryService {
	return &DefaultDirectoryService{lister: lister, getter: getter, logger: logger}
}

// Search lists the directory and filters it. A cancelled ctx aborts the call.
func (s *DefaultDirectoryService) Search(ctx context.Context, q Query) ([]models.Therapist, error) {
	therapists, err := s.lister.ListTherapists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list therapists: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := Search(therapists, q)
	s.logger.Debug("Directory search",
		zap.String("text", q.Text),
		zap.String("city", q.City),
		zap.String("gender", q.Gender),
		zap.String("service", q.ServiceCategory),
		zap.Int("matches", len(result)),
	)
	return result, nil
}

func (s *DefaultDirectoryService) GetTherapist(ctx context.Context, id string) (*models.Therapist, error) {
	t, err := s.getter.GetTherapist(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, models.NewNotFoundError("therapist", id)
		}
		return nil, err
	}
	return t, nil
}

func (s *DefaultDirectoryService) Options() Options {
	cities := append([]string{AllCities}, models.IndonesianCities...)
	return Options{
		Cities:     cities,
		Genders:    []string{AllGenders, string(models.GenderMale), string(models.GenderFemale)},
		Categories: append([]models.ServiceCategory{}, models.ServiceCategories...),
	}
}
