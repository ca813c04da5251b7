package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pijatku/database"
	"pijatku/database/repository"
	"pijatku/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPaymentService implements PaymentService.
type DefaultPaymentService struct {
	payments repository.PaymentRepository
	bookings repository.BookingRepository
	users    repository.UserRepository
	gateways map[models.PaymentMethod]Gateway
	queue    RefundQueue
	logger   *zap.Logger
	now      func() time.Time
}

func NewPaymentService(
	payments repository.PaymentRepository,
	bookings repository.BookingRepository,
	users repository.UserRepository,
	gateways map[models.PaymentMethod]Gateway,
	logger *zap.Logger,
) *DefaultPaymentService {
	if gateways == nil {
		gateways = map[models.PaymentMethod]Gateway{}
	}
	return &DefaultPaymentService{
		payments: payments,
		bookings: bookings,
		users:    users,
		gateways: gateways,
		logger:   logger,
		now:      time.Now,
	}
}

// SetRefundQueue wires the background queue. Without one, gateway refunds run inline.
func (s *DefaultPaymentService) SetRefundQueue(q RefundQueue) {
	s.queue = q
}

func (s *DefaultPaymentService) Create(ctx context.Context, bookingID, actorID string, method models.PaymentMethod) (*models.Payment, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	if b.ClientID != actorID {
		return nil, fmt.Errorf("only the booking client can pay: %w", models.ErrForbidden)
	}
	if b.Status == models.BookingCancelled {
		return nil, models.NewValidationError("bookingId", "booking is cancelled")
	}
	p := &models.Payment{
		ID:        uuid.New().String(),
		BookingID: b.ID,
		Amount:    b.TotalAmount,
		Method:    method,
		Status:    models.PaymentPending,
		CreatedAt: s.now(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.payments.Create(ctx, p); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, models.NewValidationError("bookingId", "booking already has a payment")
		}
		return nil, fmt.Errorf("store payment: %w", err)
	}
	s.logger.Info("Payment created", zap.String("payment", p.ID), zap.String("booking", b.ID), zap.String("method", string(method)))
	return p, nil
}

// Capture records a successful charge. A booking cancelled before the charge
// is rejected; one cancelled while it lands is refunded straight away.
func (s *DefaultPaymentService) Capture(ctx context.Context, paymentID, actorID, transactionID string) (*models.Payment, error) {
	p, b, err := s.authorized(ctx, paymentID, actorID)
	if err != nil {
		return nil, err
	}
	if b.Status == models.BookingCancelled {
		return nil, models.NewValidationError("bookingId", "booking is cancelled")
	}
	transactionID = strings.TrimSpace(transactionID)
	if p.Method.Electronic() && transactionID == "" {
		return nil, models.NewValidationError("transactionId", "is required for "+string(p.Method)+" payments")
	}
	captured, err := s.move(ctx, p, models.PaymentPending, models.PaymentCompleted, transactionID)
	if err != nil {
		return nil, err
	}

	current, err := s.bookings.GetByID(ctx, b.ID)
	if err != nil || current.Status != models.BookingCancelled {
		return captured, nil
	}
	s.logger.Warn("Payment captured on a cancelled booking, refunding", zap.String("payment", captured.ID), zap.String("booking", b.ID))
	if err := s.RefundForBooking(ctx, b.ID); err != nil {
		s.logger.Error("Failed to refund late capture", zap.String("payment", captured.ID), zap.Error(err))
	}
	if refreshed, err := s.payments.GetByID(ctx, captured.ID); err == nil {
		return refreshed, nil
	}
	return captured, nil
}

// Fail records a declined charge. transactionID is the provider's reference
// when it has one.
func (s *DefaultPaymentService) Fail(ctx context.Context, paymentID, actorID, transactionID string) (*models.Payment, error) {
	p, _, err := s.authorized(ctx, paymentID, actorID)
	if err != nil {
		return nil, err
	}
	return s.move(ctx, p, models.PaymentPending, models.PaymentFailed, strings.TrimSpace(transactionID))
}

// RefundForBooking moves a completed payment to refunded. The flip carries the
// pending-refund flag, so a gateway call that cannot be queued now is picked
// up by RetryPendingRefunds.
func (s *DefaultPaymentService) RefundForBooking(ctx context.Context, bookingID string) error {
	p, err := s.payments.GetByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find payment for booking %s: %w", bookingID, err)
	}
	if p.Status != models.PaymentCompleted {
		return nil
	}
	refunded, err := s.move(ctx, p, models.PaymentCompleted, models.PaymentRefunded, "")
	if err != nil {
		var it *models.InvalidTransitionError
		if errors.As(err, &it) {
			// Someone else refunded it first.
			return nil
		}
		return err
	}
	return s.dispatchRefund(ctx, refunded)
}

func (s *DefaultPaymentService) dispatchRefund(ctx context.Context, p *models.Payment) error {
	if s.queue == nil || !p.Method.Electronic() {
		return s.ProcessRefund(ctx, p.ID)
	}
	if err := s.queue.EnqueueRefund(ctx, p.ID); err != nil {
		return fmt.Errorf("enqueue refund %s: %w", p.ID, err)
	}
	return nil
}

func (s *DefaultPaymentService) ProcessRefund(ctx context.Context, paymentID string) error {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return notFound(err, "payment", paymentID)
	}
	if p.Status != models.PaymentRefunded {
		return &models.InvalidTransitionError{Entity: "payment", From: string(p.Status), To: string(models.PaymentRefunded)}
	}
	if !p.RefundPending {
		return nil
	}
	if p.Method.Electronic() {
		gw, ok := s.gateways[p.Method]
		if !ok {
			return fmt.Errorf("refund %s via %s: %w", p.ID, p.Method, ErrNoGateway)
		}
		if err := gw.Refund(ctx, p); err != nil {
			return fmt.Errorf("gateway refund %s: %w", p.ID, err)
		}
		s.logger.Info("Gateway refund issued", zap.String("payment", p.ID), zap.Stringer("amount", p.Amount))
	}
	if err := s.payments.ClearRefundPending(ctx, p.ID); err != nil {
		return fmt.Errorf("clear refund flag %s: %w", p.ID, err)
	}
	return nil
}

func (s *DefaultPaymentService) RetryPendingRefunds(ctx context.Context) error {
	pending, err := s.payments.ListRefundPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending refunds: %w", err)
	}
	var errs []error
	for i := range pending {
		if err := s.ProcessRefund(ctx, pending[i].ID); err != nil {
			s.logger.Warn("Refund still outstanding", zap.String("payment", pending[i].ID), zap.Error(err))
			errs = append(errs, err)
		}
	}
	if len(pending) > 0 {
		s.logger.Info("Retried pending refunds", zap.Int("count", len(pending)), zap.Int("failed", len(errs)))
	}
	return errors.Join(errs...)
}

// authorized loads the payment and its booking and checks the actor is the
// paying client or an admin.
func (s *DefaultPaymentService) authorized(ctx context.Context, paymentID, actorID string) (*models.Payment, *models.Booking, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, nil, notFound(err, "payment", paymentID)
	}
	b, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, nil, notFound(err, "booking", p.BookingID)
	}
	if b.ClientID == actorID {
		return p, b, nil
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil || actor.Role() != models.RoleAdmin {
		return nil, nil, models.ErrForbidden
	}
	return p, b, nil
}

func (s *DefaultPaymentService) move(ctx context.Context, p *models.Payment, from, to models.PaymentStatus, transactionID string) (*models.Payment, error) {
	if p.Status != from {
		return nil, &models.InvalidTransitionError{Entity: "payment", From: string(p.Status), To: string(to)}
	}
	updated, err := s.payments.UpdateStatus(ctx, p.ID, from, to, transactionID)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, &models.InvalidTransitionError{Entity: "payment", From: string(from), To: string(to)}
		}
		return nil, fmt.Errorf("update payment %s: %w", p.ID, err)
	}
	s.logger.Info("Payment status changed", zap.String("payment", p.ID), zap.String("to", string(to)))
	return updated, nil
}

func notFound(err error, entity, id string) error {
	if errors.Is(err, database.ErrNotFound) {
		return models.NewNotFoundError(entity, id)
	}
	return err
}
