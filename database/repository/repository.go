package repository

import (
	"pijatku/database"
	bookingRepo "pijatku/database/repository/booking"
	messageRepo "pijatku/database/repository/message"
	paymentRepo "pijatku/database/repository/payment"
	payoutRepo "pijatku/database/repository/payout"
	reviewRepo "pijatku/database/repository/review"
	userRepo "pijatku/database/repository/user"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Re-export the repository interfaces.
type (
	UserRepository    = userRepo.UserRepository
	BookingRepository = bookingRepo.BookingRepository
	PaymentRepository = paymentRepo.PaymentRepository
	ReviewRepository  = reviewRepo.ReviewRepository
	MessageRepository = messageRepo.MessageRepository
	PayoutRepository  = payoutRepo.PayoutRepository
)

// Re-export the shared repository errors.
var (
	ErrNotFound  = database.ErrNotFound
	ErrConflict  = database.ErrConflict
	ErrDuplicate = database.ErrDuplicate
)

// Store bundles one repository per entity. Services receive the pieces they need.
type Store struct {
	Users    UserRepository
	Bookings BookingRepository
	Payments PaymentRepository
	Reviews  ReviewRepository
	Messages MessageRepository
	Payouts  PayoutRepository
}

// NewMongoStore wires every repository to collections of db.
func NewMongoStore(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		Users:    userRepo.NewMongoUserRepo(db, logger),
		Bookings: bookingRepo.NewMongoBookingRepo(db, logger),
		Payments: paymentRepo.NewMongoPaymentRepo(db, logger),
		Reviews:  reviewRepo.NewMongoReviewRepo(db, logger),
		Messages: messageRepo.NewMongoMessageRepo(db, logger),
		Payouts:  payoutRepo.NewMongoPayoutRepo(db, logger),
	}
}

// NewMemoryStore returns process-local repositories for development and tests.
func NewMemoryStore() *Store {
	return &Store{
		Users:    userRepo.NewMemoryUserRepo(),
		Bookings: bookingRepo.NewMemoryBookingRepo(),
		Payments: paymentRepo.NewMemoryPaymentRepo(),
		Reviews:  reviewRepo.NewMemoryReviewRepo(),
		Messages: messageRepo.NewMemoryMessageRepo(),
		Payouts:  payoutRepo.NewMemoryPayoutRepo(),
	}
}
