package booking

import (
	"pijatku/models"
	"pijatku/utils"
)

// TherapistSummary is the part of a therapist shown on a booking card.
type TherapistSummary struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Photo  string  `json:"photo,omitempty"`
	Rating float64 `json:"rating"`
	City   string  `json:"city"`
}

// Card is a booking joined with its therapist for list display.
type Card struct {
	Booking     models.Booking   `json:"booking"`
	Therapist   TherapistSummary `json:"therapist"`
	ServiceName string           `json:"serviceName"`
	StatusLabel string           `json:"statusLabel"`
	Tier        Tier             `json:"tier"`
	DateLabel   string           `json:"dateLabel"`
	AmountLabel string           `json:"amountLabel"`
	CanMessage  bool             `json:"canMessage"`
	CanReview   bool             `json:"canReview"`
	CanCancel   bool             `json:"canCancel"`
}

// TherapistLookup resolves a therapist id; ok is false for a dangling reference.
type TherapistLookup func(id string) (t *models.Therapist, ok bool)

// BuildCards joins bookings to their therapists. Bookings whose therapist does
// not resolve are left out and their ids returned as skipped.
func BuildCards(bookings []models.Booking, lookup TherapistLookup) (cards []Card, skipped []string) {
	cards = make([]Card, 0, len(bookings))
	for _, b := range bookings {
		t, ok := lookup(b.TherapistID)
		if !ok {
			skipped = append(skipped, b.ID)
			continue
		}
		serviceName := ""
		if svc, found := t.FindService(b.ServiceID); found {
			serviceName = svc.Name
		}
		b := b
		cards = append(cards, Card{
			Booking: b,
			Therapist: TherapistSummary{
				ID:     t.ID,
				Name:   t.Name,
				Photo:  t.PrimaryPhoto(),
				Rating: t.Rating,
				City:   t.Location.City,
			},
			ServiceName: serviceName,
			StatusLabel: StatusLabel(b.Status),
			Tier:        StatusTier(b.Status),
			DateLabel:   utils.FormatDateTimeID(b.Date),
			AmountLabel: b.TotalAmount.String(),
			CanMessage:  CanMessage(&b),
			CanReview:   CanReview(&b),
			CanCancel:   Cancellable(b.Status),
		})
	}
	return cards, skipped
}
