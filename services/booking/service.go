package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pijatku/database"
	"pijatku/database/repository"
	"pijatku/models"
	"pijatku/services/events"
	"pijatku/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	users     repository.UserRepository
	bookings  repository.BookingRepository
	fees      FeePolicy
	refunds   Refunder
	credits   CreditQueue
	reminders ReminderScheduler
	notifier  notification.Notifier
	events    events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// Deps groups the collaborators of DefaultBookingService.
type Deps struct {
	Users     repository.UserRepository
	Bookings  repository.BookingRepository
	Fees      FeePolicy
	Refunds   Refunder
	Credits   CreditQueue
	Reminders ReminderScheduler
	Notifier  notification.Notifier
	Events    events.Publisher
	Logger    *zap.Logger
}

func NewBookingService(d Deps) (*DefaultBookingService, error) {
	if d.Users == nil || d.Bookings == nil {
		return nil, errors.New("booking service initialization error: repositories are required")
	}
	if err := d.Fees.Validate(); err != nil {
		return nil, err
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &DefaultBookingService{
		users:     d.Users,
		bookings:  d.Bookings,
		fees:      d.Fees,
		refunds:   d.Refunds,
		credits:   d.Credits,
		reminders: d.Reminders,
		notifier:  d.Notifier,
		events:    d.Events,
		logger:    d.Logger,
		now:       time.Now,
	}, nil
}

func (s *DefaultBookingService) Create(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	client, err := s.users.GetClient(ctx, req.ClientID)
	if err != nil {
		return nil, notFound(err, "client", req.ClientID)
	}
	therapist, err := s.users.GetTherapist(ctx, req.TherapistID)
	if err != nil {
		return nil, notFound(err, "therapist", req.TherapistID)
	}
	svc, ok := therapist.FindService(req.ServiceID)
	if !ok {
		return nil, models.NewValidationError("serviceId", "is not offered by this therapist")
	}
	if !therapist.IsAvailable {
		return nil, models.NewValidationError("therapistId", "therapist is not accepting bookings")
	}
	now := s.now()
	if !req.Date.After(now) {
		return nil, models.NewValidationError("date", "must be in the future")
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		address = client.Address
	}

	fees := s.fees.Breakdown(svc.Price)
	b, err := models.NewBooking(models.Booking{
		ID:               uuid.New().String(),
		ClientID:         client.ID,
		TherapistID:      therapist.ID,
		ServiceID:        svc.ID,
		Date:             req.Date,
		Duration:         svc.Duration,
		Status:           models.BookingPending,
		TotalAmount:      fees.Total,
		PlatformFee:      fees.PlatformFee,
		PaymentFee:       fees.PaymentFee,
		TherapistEarning: fees.TherapistEarning,
		Address:          address,
		Notes:            strings.TrimSpace(req.Notes),
		CreatedAt:        now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("store booking: %w", err)
	}

	s.logger.Info("Booking created",
		zap.String("booking", b.ID),
		zap.String("client", b.ClientID),
		zap.String("therapist", b.TherapistID),
		zap.Stringer("total", b.TotalAmount),
	)
	s.announce(ctx, b, client.ID, "New booking request",
		fmt.Sprintf("%s booked %s on %s", client.Name, svc.Name, b.Date.Format("02 Jan 15:04")))
	return b, nil
}

func (s *DefaultBookingService) Get(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	if b.HasParty(actorID) {
		return b, nil
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil || actor.Role() != models.RoleAdmin {
		return nil, models.ErrForbidden
	}
	return b, nil
}

// Transition applies one lifecycle step. The update is a compare-and-set on
// the status and version read here, so of two racing requests only one wins;
// the loser gets an InvalidTransitionError and the booking is unchanged.
func (s *DefaultBookingService) Transition(ctx context.Context, bookingID, actorID string, next models.BookingStatus) (*models.Booking, error) {
	if !next.Valid() {
		return nil, models.NewValidationError("status", "unknown status "+string(next))
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, notFound(err, "user", actorID)
	}
	if err := authorize(actor, b, next); err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, next) {
		return nil, &models.InvalidTransitionError{Entity: "booking", From: string(b.Status), To: string(next)}
	}

	var completedAt *time.Time
	if next == models.BookingCompleted {
		now := s.now()
		completedAt = &now
	}
	updated, err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, b.Version, next, completedAt)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			from := b.Status
			if current, getErr := s.bookings.GetByID(ctx, b.ID); getErr == nil {
				from = current.Status
			}
			return nil, &models.InvalidTransitionError{Entity: "booking", From: string(from), To: string(next)}
		}
		return nil, fmt.Errorf("update booking %s: %w", b.ID, err)
	}

	s.logger.Info("Booking status changed",
		zap.String("booking", updated.ID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(next)),
		zap.String("actor", actorID),
	)
	s.afterTransition(ctx, updated, actorID)
	return updated, nil
}

// authorize applies the role rules: the therapist drives the session forward,
// either party may cancel, admins may do anything the lifecycle allows.
func authorize(actor models.Account, b *models.Booking, next models.BookingStatus) error {
	if actor.Role() == models.RoleAdmin {
		return nil
	}
	id := actor.Identity().ID
	if !b.HasParty(id) {
		return models.ErrForbidden
	}
	if next != models.BookingCancelled && id != b.TherapistID {
		return fmt.Errorf("only the therapist can mark a booking %s: %w", next, models.ErrForbidden)
	}
	return nil
}

// afterTransition runs the cross-entity consequences of a committed status
// change. Failures are logged; the transition itself stands. A missed credit
// is retried from the queue and by ReconcileCredits.
func (s *DefaultBookingService) afterTransition(ctx context.Context, b *models.Booking, actorID string) {
	switch b.Status {
	case models.BookingCompleted:
		if err := s.CreditEarnings(ctx, b.ID); err != nil {
			s.logger.Error("Failed to credit therapist earnings",
				zap.String("booking", b.ID), zap.String("therapist", b.TherapistID), zap.Error(err))
			if s.credits != nil {
				if qErr := s.credits.EnqueueCredit(ctx, b.ID); qErr != nil {
					s.logger.Warn("Credit left for reconciliation", zap.String("booking", b.ID), zap.Error(qErr))
				}
			}
		}
	case models.BookingCancelled:
		if s.refunds != nil {
			if err := s.refunds.RefundForBooking(ctx, b.ID); err != nil {
				s.logger.Error("Failed to refund cancelled booking", zap.String("booking", b.ID), zap.Error(err))
			}
		}
	case models.BookingConfirmed:
		if s.reminders != nil {
			if err := s.reminders.ScheduleReminder(ctx, b); err != nil {
				s.logger.Warn("Failed to schedule booking reminder", zap.String("booking", b.ID), zap.Error(err))
			}
		}
	}
	s.announce(ctx, b, actorID, "Booking "+strings.ToLower(StatusLabel(b.Status)),
		fmt.Sprintf("Your booking on %s is now %s", b.Date.Format("02 Jan 15:04"), strings.ToLower(StatusLabel(b.Status))))
}

func (s *DefaultBookingService) CreditEarnings(ctx context.Context, bookingID string) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return notFound(err, "booking", bookingID)
	}
	if b.Status != models.BookingCompleted {
		return &models.InvalidTransitionError{Entity: "booking", From: string(b.Status), To: "credited"}
	}
	if b.EarningsCredited {
		return nil
	}
	// The user repository skips bookings it has already credited, so a
	// failure between these two writes is safe to retry.
	if err := s.users.CreditEarnings(ctx, b.TherapistID, b.ID, b.TherapistEarning); err != nil {
		return fmt.Errorf("credit booking %s: %w", b.ID, notFound(err, "therapist", b.TherapistID))
	}
	if err := s.bookings.MarkCredited(ctx, b.ID); err != nil {
		return fmt.Errorf("mark booking %s credited: %w", b.ID, err)
	}
	s.logger.Info("Therapist earnings credited",
		zap.String("booking", b.ID), zap.String("therapist", b.TherapistID), zap.Stringer("amount", b.TherapistEarning))
	return nil
}

func (s *DefaultBookingService) ReconcileCredits(ctx context.Context) error {
	missed, err := s.bookings.ListUncredited(ctx)
	if err != nil {
		return fmt.Errorf("list uncredited bookings: %w", err)
	}
	var errs []error
	for _, b := range missed {
		if err := s.CreditEarnings(ctx, b.ID); err != nil {
			errs = append(errs, err)
		}
	}
	if len(missed) > 0 {
		s.logger.Info("Reconciled therapist credits", zap.Int("bookings", len(missed)), zap.Int("failed", len(errs)))
	}
	return errors.Join(errs...)
}

// announce publishes a status event to both parties and pushes to whoever
// did not cause the change.
func (s *DefaultBookingService) announce(ctx context.Context, b *models.Booking, actorID, title, body string) {
	if s.events != nil {
		for _, recipient := range []string{b.ClientID, b.TherapistID} {
			evt := events.Event{
				Type:      events.BookingStatusChanged,
				Recipient: recipient,
				BookingID: b.ID,
				Status:    b.Status,
				At:        s.now(),
			}
			if err := s.events.Publish(ctx, evt); err != nil {
				s.logger.Warn("Failed to publish booking event", zap.String("booking", b.ID), zap.Error(err))
			}
		}
	}
	if s.notifier == nil {
		return
	}
	targets := []string{b.Counterpart(actorID)}
	if !b.HasParty(actorID) {
		targets = []string{b.ClientID, b.TherapistID}
	}
	data := map[string]string{"type": "booking_status", "bookingId": b.ID, "status": string(b.Status)}
	for _, userID := range targets {
		if err := s.notifier.Notify(ctx, userID, title, body, data); err != nil {
			s.logger.Warn("Failed to push booking notification", zap.String("user", userID), zap.Error(err))
		}
	}
}

// ListForUser returns the user's bookings in one tab as cards. Bookings whose
// therapist no longer exists are omitted.
func (s *DefaultBookingService) ListForUser(ctx context.Context, userID string, tab Tab) ([]Card, error) {
	if !tab.Valid() {
		return nil, models.NewValidationError("tab", "must be upcoming or past")
	}
	all, err := s.bookings.ListByParty(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	upcoming, past := Partition(all)
	selected := upcoming
	if tab == TabPast {
		selected = past
	}

	therapists := make(map[string]*models.Therapist)
	for _, b := range selected {
		if _, seen := therapists[b.TherapistID]; seen {
			continue
		}
		t, err := s.users.GetTherapist(ctx, b.TherapistID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("resolve therapist %s: %w", b.TherapistID, err)
		}
		therapists[b.TherapistID] = t
	}

	cards, skipped := BuildCards(selected, func(id string) (*models.Therapist, bool) {
		t := therapists[id]
		return t, t != nil
	})
	if len(skipped) > 0 {
		s.logger.Debug("Skipped bookings with missing therapist", zap.Strings("bookings", skipped))
	}
	return cards, nil
}

func notFound(err error, entity, id string) error {
	if errors.Is(err, database.ErrNotFound) {
		return models.NewNotFoundError(entity, id)
	}
	return err
}
