package booking

import "pijatku/models"

// forward is the only legal forward path; no step may be skipped.
var forward = map[models.BookingStatus]models.BookingStatus{
	models.BookingPending:    models.BookingConfirmed,
	models.BookingConfirmed:  models.BookingInProgress,
	models.BookingInProgress: models.BookingCompleted,
}

// CanTransition reports whether a booking may move from one status to another.
// Cancellation is only possible before the session starts.
func CanTransition(from, to models.BookingStatus) bool {
	if next, ok := forward[from]; ok && next == to {
		return true
	}
	return to == models.BookingCancelled && Cancellable(from)
}

// Cancellable reports whether a booking in status s can still be cancelled.
func Cancellable(s models.BookingStatus) bool {
	return s == models.BookingPending || s == models.BookingConfirmed
}

// IsUpcoming reports whether a status belongs to the upcoming tab.
func IsUpcoming(s models.BookingStatus) bool {
	switch s {
	case models.BookingPending, models.BookingConfirmed, models.BookingInProgress:
		return true
	}
	return false
}

// Partition splits bookings into the upcoming and past tabs, keeping input order.
// Every booking lands in exactly one of the two.
func Partition(bookings []models.Booking) (upcoming, past []models.Booking) {
	upcoming = []models.Booking{}
	past = []models.Booking{}
	for _, b := range bookings {
		if IsUpcoming(b.Status) {
			upcoming = append(upcoming, b)
		} else {
			past = append(past, b)
		}
	}
	return upcoming, past
}

// Tab is one of the two booking list views.
type Tab string

const (
	TabUpcoming Tab = "upcoming"
	TabPast     Tab = "past"
)

func (t Tab) Valid() bool {
	return t == TabUpcoming || t == TabPast
}

// Tier is the semantic severity a status is displayed with.
type Tier string

const (
	TierNeutral       Tier = "neutral"
	TierInformational Tier = "informational"
	TierActive        Tier = "active"
	TierSuccess       Tier = "success"
	TierDanger        Tier = "danger"
)

// StatusTier maps each status to exactly one tier.
func StatusTier(s models.BookingStatus) Tier {
	switch s {
	case models.BookingPending:
		return TierNeutral
	case models.BookingConfirmed:
		return TierInformational
	case models.BookingInProgress:
		return TierActive
	case models.BookingCompleted:
		return TierSuccess
	case models.BookingCancelled:
		return TierDanger
	}
	return TierNeutral
}

// StatusLabel is the display text for a status, e.g. "In progress".
func StatusLabel(s models.BookingStatus) string {
	switch s {
	case models.BookingPending:
		return "Pending"
	case models.BookingConfirmed:
		return "Confirmed"
	case models.BookingInProgress:
		return "In progress"
	case models.BookingCompleted:
		return "Completed"
	case models.BookingCancelled:
		return "Cancelled"
	}
	return string(s)
}

// CanMessage reports whether the parties may still chat about a booking.
func CanMessage(b *models.Booking) bool {
	return b.Status != models.BookingCancelled
}

// CanReview reports whether the client may leave a review.
func CanReview(b *models.Booking) bool {
	return b.Status == models.BookingCompleted
}
