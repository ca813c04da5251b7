// Package seed loads the development directory into a store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pijatku/database"
	"pijatku/database/repository"
	"pijatku/models"

	"go.uber.org/zap"
)

func service(id, name string, minutes int, price models.Rupiah, category models.ServiceCategory) models.Service {
	return models.Service{ID: id, Name: name, Description: name + " session", Duration: minutes, Price: price, Category: category}
}

// Therapists returns the mock directory. Siti only offers Thai massage.
func Therapists(now time.Time) []*models.Therapist {
	joined := now.AddDate(-1, 0, 0)
	return []*models.Therapist{
		{
			User:        models.User{ID: "1", Email: "dewi@pijatku.id", Name: "Dewi Lestari", Phone: "+6281234567801", CreatedAt: joined},
			Gender:      models.GenderFemale,
			Bio:         "Certified therapist specialising in relaxation and aromatherapy.",
			Photos:      []string{"https://images.pijatku.id/therapists/dewi-1.jpg"},
			Services:    []models.Service{service("s1", "Swedish Massage", 60, 150000, models.CategorySwedish), service("s2", "Aromatherapy", 90, 200000, models.CategoryAromatherapy)},
			Location:    models.Location{City: "Jakarta", District: "Kebayoran Baru", Latitude: -6.2437, Longitude: 106.8006},
			Rating:      4.9, ReviewCount: 127, IsAvailable: true, HourlyRate: 150000, Experience: 8,
			Certifications: []string{"Certified Massage Therapist"}, Languages: []string{"Indonesian", "English"},
			TotalEarnings: 12500000, PendingPayout: 850000,
		},
		{
			User:        models.User{ID: "2", Email: "budi@pijatku.id", Name: "Budi Santoso", Phone: "+6281234567802", CreatedAt: joined},
			Gender:      models.GenderMale,
			Bio:         "Sports massage and deep tissue for athletes.",
			Photos:      []string{"https://images.pijatku.id/therapists/budi-1.jpg"},
			Services:    []models.Service{service("s3", "Deep Tissue", 60, 180000, models.CategoryDeepTissue), service("s4", "Sports Massage", 75, 220000, models.CategorySports)},
			Location:    models.Location{City: "Bandung", District: "Coblong", Latitude: -6.8915, Longitude: 107.6107},
			Rating:      4.7, ReviewCount: 89, IsAvailable: true, HourlyRate: 180000, Experience: 6,
			Certifications: []string{"Sports Therapy Certificate"}, Languages: []string{"Indonesian"},
			TotalEarnings: 8400000, PendingPayout: 0,
		},
		{
			User:        models.User{ID: "3", Email: "siti@pijatku.id", Name: "Siti Nurhaliza", Phone: "+6281234567803", CreatedAt: joined},
			Gender:      models.GenderFemale,
			Bio:         "Traditional Thai massage practitioner.",
			Photos:      []string{"https://images.pijatku.id/therapists/siti-1.jpg"},
			Services:    []models.Service{service("s5", "Thai Massage", 90, 175000, models.CategoryThai)},
			Location:    models.Location{City: "Surabaya", District: "Gubeng", Latitude: -7.2653, Longitude: 112.7521},
			Rating:      4.8, ReviewCount: 64, IsAvailable: true, HourlyRate: 120000, Experience: 10,
			Certifications: []string{"Wat Po Thai Massage"}, Languages: []string{"Indonesian", "Javanese"},
			TotalEarnings: 6200000, PendingPayout: 300000,
		},
		{
			User:        models.User{ID: "4", Email: "made@pijatku.id", Name: "Made Wirawan", Phone: "+6281234567804", CreatedAt: joined},
			Gender:      models.GenderMale,
			Bio:         "Balinese hot stone and reflexology.",
			Photos:      []string{"https://images.pijatku.id/therapists/made-1.jpg"},
			Services:    []models.Service{service("s6", "Hot Stone", 90, 250000, models.CategoryHotStone), service("s7", "Reflexology", 45, 100000, models.CategoryReflexology)},
			Location:    models.Location{City: "Bali", District: "Ubud", Latitude: -8.5069, Longitude: 115.2625},
			Rating:      4.6, ReviewCount: 41, IsAvailable: false, HourlyRate: 200000, Experience: 12,
			Certifications: []string{}, Languages: []string{"Indonesian", "English", "Balinese"},
		},
		{
			User:        models.User{ID: "5", Email: "rina@pijatku.id", Name: "Rina Kartika", Phone: "+6281234567805", CreatedAt: joined},
			Gender:      models.GenderFemale,
			Bio:         "Prenatal and gentle Swedish massage.",
			Photos:      []string{"https://images.pijatku.id/therapists/rina-1.jpg"},
			Services:    []models.Service{service("s8", "Prenatal Massage", 60, 190000, models.CategoryPrenatal), service("s9", "Swedish Massage", 60, 160000, models.CategorySwedish)},
			Location:    models.Location{City: "Jakarta", District: "Menteng", Latitude: -6.1956, Longitude: 106.8322},
			Rating:      5.0, ReviewCount: 23, IsAvailable: true, HourlyRate: 160000, Experience: 4,
			Certifications: []string{"Prenatal Massage Certificate"}, Languages: []string{"Indonesian"},
			TotalEarnings: 2100000, PendingPayout: 2100000,
		},
	}
}

// Clients returns the mock client accounts.
func Clients(now time.Time) []*models.Client {
	return []*models.Client{
		{User: models.User{ID: "c1", Email: "andi@example.com", Name: "Andi Pratama", Phone: "+6281298765401", CreatedAt: now.AddDate(0, -3, 0)}, Address: "Jl. Sudirman No. 12", City: "Jakarta", PreferredGender: models.PreferAny},
		{User: models.User{ID: "c2", Email: "maya@example.com", Name: "Maya Sari", Phone: "+6281298765402", CreatedAt: now.AddDate(0, -2, 0)}, Address: "Jl. Dago No. 5", City: "Bandung", PreferredGender: models.PreferFemale},
	}
}

// Bookings returns mock bookings relative to now, one per lifecycle status.
func Bookings(now time.Time) []*models.Booking {
	completedAt := now.AddDate(0, 0, -5).Add(90 * time.Minute)
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset).Truncate(time.Hour) }
	return []*models.Booking{
		{ID: "b1", ClientID: "c1", TherapistID: "1", ServiceID: "s1", Date: day(2), Duration: 60, Status: models.BookingConfirmed,
			TotalAmount: 150000, PlatformFee: 15000, PaymentFee: 4500, TherapistEarning: 130500, Address: "Jl. Sudirman No. 12", CreatedAt: day(-1)},
		{ID: "b2", ClientID: "c1", TherapistID: "3", ServiceID: "s5", Date: day(4), Duration: 90, Status: models.BookingPending,
			TotalAmount: 175000, PlatformFee: 17500, PaymentFee: 5250, TherapistEarning: 152250, Address: "Jl. Sudirman No. 12", Notes: "Please bring a mat", CreatedAt: day(-1)},
		{ID: "b3", ClientID: "c1", TherapistID: "2", ServiceID: "s3", Date: day(-5), Duration: 60, Status: models.BookingCompleted,
			TotalAmount: 180000, PlatformFee: 18000, PaymentFee: 5400, TherapistEarning: 156600, Address: "Jl. Sudirman No. 12", CreatedAt: day(-9), CompletedAt: &completedAt, EarningsCredited: true},
		{ID: "b4", ClientID: "c2", TherapistID: "5", ServiceID: "s8", Date: day(-2), Duration: 60, Status: models.BookingCancelled,
			TotalAmount: 190000, PlatformFee: 19000, PaymentFee: 5700, TherapistEarning: 165300, Address: "Jl. Dago No. 5", CreatedAt: day(-6)},
	}
}

// Load inserts the mock data, skipping records that already exist.
func Load(ctx context.Context, store *repository.Store, logger *zap.Logger) error {
	now := time.Now()
	var accounts []models.Account
	for _, t := range Therapists(now) {
		accounts = append(accounts, t)
	}
	for _, c := range Clients(now) {
		accounts = append(accounts, c)
	}
	accounts = append(accounts, &models.Admin{User: models.User{ID: "admin", Email: "admin@pijatku.id", Name: "Admin Pijatku", CreatedAt: now}})

	for _, acc := range accounts {
		if err := acc.Validate(); err != nil {
			return fmt.Errorf("seed account %s: %w", acc.Identity().ID, err)
		}
		if err := store.Users.Create(ctx, acc); err != nil && !errors.Is(err, database.ErrDuplicate) {
			return fmt.Errorf("seed account %s: %w", acc.Identity().ID, err)
		}
	}
	for _, b := range Bookings(now) {
		if _, err := models.NewBooking(*b); err != nil {
			return fmt.Errorf("seed booking %s: %w", b.ID, err)
		}
		if err := store.Bookings.Create(ctx, b); err != nil && !errors.Is(err, database.ErrDuplicate) {
			return fmt.Errorf("seed booking %s: %w", b.ID, err)
		}
	}
	logger.Info("Mock data seeded", zap.Int("accounts", len(accounts)))
	return nil
}
