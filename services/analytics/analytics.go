package analytics

import (
	"context"
	"fmt"

	"pijatku/database/repository"
	"pijatku/models"

	"go.uber.org/zap"
)

// Input is everything Compute aggregates over.
type Input struct {
	Bookings   []models.Booking
	Therapists []models.Therapist
}

// Compute derives the platform dashboard. Revenue counts completed bookings
// only and is bucketed by the month of completion. Bookings whose therapist no
// longer exists still count towards the totals but not towards a city.
func Compute(in Input) models.Analytics {
	out := models.Analytics{
		BookingsByCity: map[string]int{},
		RevenueByMonth: map[string]models.Rupiah{},
	}

	cityOf := make(map[string]string, len(in.Therapists))
	var ratingSum float64
	var rated int
	for _, t := range in.Therapists {
		cityOf[t.ID] = t.Location.City
		if t.IsAvailable {
			out.ActiveTherapists++
		}
		if t.ReviewCount > 0 {
			ratingSum += t.Rating
			rated++
		}
	}
	if rated > 0 {
		out.AverageRating = ratingSum / float64(rated)
	}

	clients := make(map[string]struct{})
	for _, b := range in.Bookings {
		out.TotalBookings++
		if b.Status != models.BookingCancelled {
			clients[b.ClientID] = struct{}{}
		}
		if city, ok := cityOf[b.TherapistID]; ok && city != "" {
			out.BookingsByCity[city]++
		}
		if b.Status == models.BookingCompleted {
			out.TotalRevenue += b.TotalAmount
			if b.CompletedAt != nil {
				out.RevenueByMonth[b.CompletedAt.Format("2006-01")] += b.TotalAmount
			}
		}
	}
	out.ActiveClients = len(clients)
	return out
}

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*models.Analytics, error)
}

type DefaultAnalyticsService struct {
	users    repository.UserRepository
	bookings repository.BookingRepository
	logger   *zap.Logger
}

func NewAnalyticsService(users repository.UserRepository, bookings repository.BookingRepository, logger *zap.Logger) *DefaultAnalyticsService {
	return &DefaultAnalyticsService{users: users, bookings: bookings, logger: logger}
}

func (s *DefaultAnalyticsService) Dashboard(ctx context.Context) (*models.Analytics, error) {
	therapists, err := s.users.ListTherapists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list therapists: %w", err)
	}
	bookings, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	a := Compute(Input{Bookings: bookings, Therapists: therapists})
	s.logger.Debug("Analytics computed", zap.Int("bookings", a.TotalBookings), zap.Stringer("revenue", a.TotalRevenue))
	return &a, nil
}
