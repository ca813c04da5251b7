package payout

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

// PayoutService handles therapist withdrawals from their pending payout.
type PayoutService interface {
	Request(ctx context.Context, therapistID string, amount models.Rupiah, bankAccount string) (*models.PayoutRequest, error)
	ListForTherapist(ctx context.Context, therapistID string) ([]models.PayoutRequest, error)
	ListAll(ctx context.Context) ([]models.PayoutRequest, error)
	Approve(ctx context.Context, payoutID string) (*models.PayoutRequest, error)
	Reject(ctx context.Context, payoutID string) (*models.PayoutRequest, error)
	Complete(ctx context.Context, payoutID string) (*models.PayoutRequest, error)
}

type DefaultPayoutService struct {
	payouts repository.PayoutRepository
	users   repository.UserRepository
	logger  *zap.Logger
	now     func() time.Time
}

func NewPayoutService(payouts repository.PayoutRepository, users repository.UserRepository, logger *zap.Logger) *DefaultPayoutService {
	return &DefaultPayoutService{payouts: payouts, users: users, logger: logger, now: time.Now}
}

// Request reserves amount out of the therapist's pending payout. The
// reservation is a single guarded update, so concurrent requests cannot
// together exceed what is available.
func (s *DefaultPayoutService) Request(ctx context.Context, therapistID string, amount models.Rupiah, bankAccount string) (*models.PayoutRequest, error) {
	t, err := s.users.GetTherapist(ctx, therapistID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, models.NewNotFoundError("therapist", therapistID)
		}
		return nil, err
	}
	p := &models.PayoutRequest{
		ID:          uuid.New().String(),
		TherapistID: therapistID,
		Amount:      amount,
		Status:      models.PayoutPending,
		BankAccount: strings.TrimSpace(bankAccount),
		RequestedAt: s.now(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.users.AdjustPayoutBalance(ctx, therapistID, 0, amount); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, models.NewValidationError("amount", "exceeds available payout of "+t.AvailablePayout().String())
		}
		return nil, fmt.Errorf("reserve payout: %w", err)
	}
	if err := s.payouts.Create(ctx, p); err != nil {
		s.restore(ctx, p, 0, -amount)
		return nil, fmt.Errorf("store payout: %w", err)
	}
	s.logger.Info("Payout requested", zap.String("payout", p.ID), zap.String("therapist", therapistID), zap.Stringer("amount", amount))
	return p, nil
}

func (s *DefaultPayoutService) ListForTherapist(ctx context.Context, therapistID string) ([]models.PayoutRequest, error) {
	return s.payouts.ListByTherapist(ctx, therapistID)
}

func (s *DefaultPayoutService) ListAll(ctx context.Context) ([]models.PayoutRequest, error) {
	return s.payouts.ListAll(ctx)
}

func (s *DefaultPayoutService) Approve(ctx context.Context, payoutID string) (*models.PayoutRequest, error) {
	return s.move(ctx, payoutID, models.PayoutPending, models.PayoutApproved)
}

// Reject releases the reservation of a pending payout.
func (s *DefaultPayoutService) Reject(ctx context.Context, payoutID string) (*models.PayoutRequest, error) {
	return s.settle(ctx, payoutID, models.PayoutPending, models.PayoutRejected, 0)
}

// Complete marks an approved payout as transferred and takes it out of the
// therapist's pending payout. totalEarnings is left untouched.
func (s *DefaultPayoutService) Complete(ctx context.Context, payoutID string) (*models.PayoutRequest, error) {
	return s.settle(ctx, payoutID, models.PayoutApproved, models.PayoutCompleted, -1)
}

// settle releases the reservation of a payout while moving it from -> to.
// paid is -1 when the amount also leaves pendingPayout. The balance is
// adjusted first and given back if the status move loses a race.
func (s *DefaultPayoutService) settle(ctx context.Context, payoutID string, from, to models.PayoutStatus, paid models.Rupiah) (*models.PayoutRequest, error) {
	p, err := s.get(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if p.Status != from {
		return nil, &models.InvalidTransitionError{Entity: "payout", From: string(p.Status), To: string(to)}
	}
	pending, reserved := paid*p.Amount, -p.Amount
	if err := s.users.AdjustPayoutBalance(ctx, p.TherapistID, pending, reserved); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, models.NewValidationError("amount", "is not reserved in the therapist's pending payout")
		}
		return nil, fmt.Errorf("settle payout balance: %w", err)
	}
	done, err := s.move(ctx, payoutID, from, to)
	if err != nil {
		s.restore(ctx, p, -pending, -reserved)
		return nil, err
	}
	return done, nil
}

func (s *DefaultPayoutService) restore(ctx context.Context, p *models.PayoutRequest, pending, reserved models.Rupiah) {
	if err := s.users.AdjustPayoutBalance(ctx, p.TherapistID, pending, reserved); err != nil {
		s.logger.Error("Failed to restore payout balance", zap.String("payout", p.ID), zap.Error(err))
	}
}

func (s *DefaultPayoutService) get(ctx context.Context, payoutID string) (*models.PayoutRequest, error) {
	p, err := s.payouts.GetByID(ctx, payoutID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, models.NewNotFoundError("payout", payoutID)
		}
		return nil, err
	}
	return p, nil
}

func (s *DefaultPayoutService) move(ctx context.Context, payoutID string, from, to models.PayoutStatus) (*models.PayoutRequest, error) {
	p, err := s.get(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if p.Status != from {
		return nil, &models.InvalidTransitionError{Entity: "payout", From: string(p.Status), To: string(to)}
	}
	var processedAt *time.Time
	if p.ProcessedAt == nil {
		now := s.now()
		processedAt = &now
	}
	updated, err := s.payouts.UpdateStatus(ctx, payoutID, from, to, processedAt)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, &models.InvalidTransitionError{Entity: "payout", From: string(from), To: string(to)}
		}
		return nil, fmt.Errorf("update payout %s: %w", payoutID, err)
	}
	s.logger.Info("Payout status changed", zap.String("payout", payoutID), zap.String("to", string(to)))
	return updated, nil
}
