package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"pijatku/database"
	"pijatku/database/repository"
	"pijatku/models"
	"pijatku/services/booking"
	"pijatku/services/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultHourlyRate is given to accounts that switch to the therapist role
// until they set their own rate.
const DefaultHourlyRate models.Rupiah = 100000

// UpdateRequest carries the editable profile fields. Nil fields are left as
// they are; fields that do not apply to the account's role are ignored.
type UpdateRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`

	Address         *string                  `json:"address"`
	City            *string                  `json:"city"`
	PreferredGender *models.GenderPreference `json:"preferredGender"`

	Bio            *string           `json:"bio"`
	Gender         *models.Gender    `json:"gender"`
	HourlyRate     *models.Rupiah    `json:"hourlyRate"`
	Experience     *int              `json:"experience"`
	Languages      []string          `json:"languages"`
	Certifications []string          `json:"certifications"`
	Location       *models.Location  `json:"location"`
	Services       *[]models.Service `json:"services"`
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (models.Account, error)
	Update(ctx context.Context, userID string, req UpdateRequest) (models.Account, error)
	SetAvailability(ctx context.Context, therapistID string, available bool) (*models.Therapist, error)
	SwitchRole(ctx context.Context, userID string, role models.Role) (models.Account, error)
	AddPhoto(ctx context.Context, therapistID string, file io.Reader, filename string) (*models.Therapist, error)
}

// DirectoryInvalidator drops cached directory listings after a therapist changes.
type DirectoryInvalidator interface {
	Invalidate(ctx context.Context)
}

type DefaultProfileService struct {
	users     repository.UserRepository
	bookings  repository.BookingRepository
	images    storage.ImageStore
	directory DirectoryInvalidator
	logger    *zap.Logger
}

func NewProfileService(users repository.UserRepository, bookings repository.BookingRepository, images storage.ImageStore, directory DirectoryInvalidator, logger *zap.Logger) *DefaultProfileService {
	return &DefaultProfileService{users: users, bookings: bookings, images: images, directory: directory, logger: logger}
}

func (s *DefaultProfileService) Get(ctx context.Context, userID string) (models.Account, error) {
	acc, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, models.NewNotFoundError("user", userID)
		}
		return nil, err
	}
	return acc, nil
}

func (s *DefaultProfileService) Update(ctx context.Context, userID string, req UpdateRequest) (models.Account, error) {
	acc, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u := acc.Identity()
	setString(&u.Name, req.Name)
	setString(&u.Phone, req.Phone)
	setString(&u.Avatar, req.Avatar)

	switch a := acc.(type) {
	case *models.Client:
		setString(&a.Address, req.Address)
		setString(&a.City, req.City)
		if req.PreferredGender != nil {
			a.PreferredGender = *req.PreferredGender
		}
	case *models.Therapist:
		setString(&a.Bio, req.Bio)
		if req.Gender != nil {
			a.Gender = *req.Gender
		}
		if req.HourlyRate != nil {
			a.HourlyRate = *req.HourlyRate
		}
		if req.Experience != nil {
			a.Experience = *req.Experience
		}
		if req.Languages != nil {
			a.Languages = req.Languages
		}
		if req.Certifications != nil {
			a.Certifications = req.Certifications
		}
		if req.Location != nil {
			a.Location = *req.Location
		}
		if req.Services != nil {
			a.Services = *req.Services
		}
	}
	return s.save(ctx, acc)
}

func (s *DefaultProfileService) SetAvailability(ctx context.Context, therapistID string, available bool) (*models.Therapist, error) {
	t, err := s.therapist(ctx, therapistID)
	if err != nil {
		return nil, err
	}
	t.IsAvailable = available
	return s.saveTherapist(ctx, t)
}

// SwitchRole replaces the account with the requested variant, keeping the
// shared identity. Accounts with upcoming bookings cannot switch, and neither
// can a therapist with earnings on record.
func (s *DefaultProfileService) SwitchRole(ctx context.Context, userID string, role models.Role) (models.Account, error) {
	if role != models.RoleClient && role != models.RoleTherapist {
		return nil, models.NewValidationError("role", "can only switch between client and therapist")
	}
	acc, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acc.Role() == role {
		return acc, nil
	}
	if acc.Role() == models.RoleAdmin {
		return nil, fmt.Errorf("admins cannot switch role: %w", models.ErrForbidden)
	}
	if t, ok := acc.(*models.Therapist); ok {
		if t.PendingPayout > 0 {
			return nil, models.NewValidationError("role", "pending payout of "+t.PendingPayout.String()+" must be paid out first")
		}
		if t.TotalEarnings > 0 {
			return nil, models.NewValidationError("role", "therapists with earnings on record cannot switch role")
		}
	}
	if err := s.ensureNoUpcoming(ctx, userID); err != nil {
		return nil, err
	}

	next, err := models.NewAccount(role, *acc.Identity())
	if err != nil {
		return nil, err
	}
	if t, ok := next.(*models.Therapist); ok {
		t.HourlyRate = DefaultHourlyRate
	}
	if err := s.users.Replace(ctx, next); err != nil {
		return nil, fmt.Errorf("replace account %s: %w", userID, err)
	}
	s.invalidate(ctx, acc, next)
	s.logger.Info("Account switched role",
		zap.String("user", userID), zap.String("from", string(acc.Role())), zap.String("to", string(role)))
	return next, nil
}

// AddPhoto uploads an image and appends it to the therapist's photos. The
// first photo stays primary.
func (s *DefaultProfileService) AddPhoto(ctx context.Context, therapistID string, file io.Reader, filename string) (*models.Therapist, error) {
	if s.images == nil {
		return nil, errors.New("image storage is not configured")
	}
	t, err := s.therapist(ctx, therapistID)
	if err != nil {
		return nil, err
	}
	name := uuid.New().String()
	if ext := extension(filename); ext != "" {
		name += ext
	}
	url, err := s.images.Upload(ctx, file, "therapists/"+therapistID, name)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}
	t.Photos = append(t.Photos, url)
	return s.saveTherapist(ctx, t)
}

func (s *DefaultProfileService) therapist(ctx context.Context, id string) (*models.Therapist, error) {
	t, err := s.users.GetTherapist(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, models.NewNotFoundError("therapist", id)
		}
		return nil, err
	}
	return t, nil
}

func (s *DefaultProfileService) ensureNoUpcoming(ctx context.Context, userID string) error {
	bookings, err := s.bookings.ListByParty(ctx, userID)
	if err != nil {
		return fmt.Errorf("list bookings of %s: %w", userID, err)
	}
	for _, b := range bookings {
		if booking.IsUpcoming(b.Status) {
			return models.NewValidationError("role", "booking "+b.ID+" must be completed or cancelled first")
		}
	}
	return nil
}

// save writes the editable fields and returns the stored account, so balances
// changed since acc was read are reported as they are now.
func (s *DefaultProfileService) save(ctx context.Context, acc models.Account) (models.Account, error) {
	if err := acc.Validate(); err != nil {
		return nil, err
	}
	id := acc.Identity().ID
	if err := s.users.UpdateProfile(ctx, acc); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, models.NewValidationError("role", "account changed role while being edited")
		}
		if errors.Is(err, database.ErrNotFound) {
			return nil, models.NewNotFoundError("user", id)
		}
		return nil, fmt.Errorf("save profile %s: %w", id, err)
	}
	s.invalidate(ctx, acc)
	return s.Get(ctx, id)
}

func (s *DefaultProfileService) saveTherapist(ctx context.Context, t *models.Therapist) (*models.Therapist, error) {
	acc, err := s.save(ctx, t)
	if err != nil {
		return nil, err
	}
	stored, ok := acc.(*models.Therapist)
	if !ok {
		return nil, models.NewNotFoundError("therapist", t.ID)
	}
	return stored, nil
}

func (s *DefaultProfileService) invalidate(ctx context.Context, accounts ...models.Account) {
	if s.directory == nil {
		return
	}
	for _, acc := range accounts {
		if acc.Role() == models.RoleTherapist {
			s.directory.Invalidate(ctx)
			return
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[i:])
}
