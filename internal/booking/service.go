package booking

import (
	"context"
	"errors"

	"trainerbook/internal/apperr"
	"trainerbook/internal/email"
	"trainerbook/internal/logger"
	"trainerbook/internal/metrics"
	"trainerbook/internal/trainer"
	"trainerbook/internal/user"
)

type Service interface {
	BookSlot(ctx context.Context, clientID, trainerID int, slotID string, packageID int) (*Booking, error)
	CancelBooking(ctx context.Context, clientID, bookingID int, isAdmin bool) error
	ListByClient(ctx context.Context, clientID int) ([]BookingWithDetails, error)
	ListByTrainer(ctx context.Context, trainerID int) ([]BookingWithDetails, error)
}

type service struct {
	repo         Repository
	userRepo     user.Repository
	trainerRepo  trainer.Repository
	emailService *email.Service
}

func NewService(repo Repository, userRepo user.Repository, trainerRepo trainer.Repository, emailService *email.Service) Service {
	return &service{
		repo:         repo,
		userRepo:     userRepo,
		trainerRepo:  trainerRepo,
		emailService: emailService,
	}
}

func (s *service) BookSlot(ctx context.Context, clientID, trainerID int, slotID string, packageID int) (*Booking, error) {
	if clientID <= 0 {
		return nil, apperr.New(apperr.Unauthenticated, "not authenticated")
	}
	if trainerID <= 0 || slotID == "" || packageID <= 0 {
		return nil, apperr.New(apperr.InvalidArgument, "trainer_id, slot_id and package_id are required")
	}

	booking, err := s.repo.BookSlot(ctx, trainerID, slotID, clientID, packageID)
	if err != nil {
		metrics.RecordBooking("rejected")
		switch {
		case errors.Is(err, ErrClientNotFound):
			return nil, apperr.New(apperr.NotFound, "client not found")
		case errors.Is(err, ErrTrainerNotFound):
			return nil, apperr.New(apperr.NotFound, "trainer not found")
		case errors.Is(err, ErrPackageNotFound):
			return nil, apperr.New(apperr.NotFound, "lesson package not found")
		case errors.Is(err, ErrSlotNotFound):
			return nil, apperr.New(apperr.NotFound, "slot not found")
		case errors.Is(err, ErrPackageExhausted):
			return nil, apperr.New(apperr.FailedPrecondition, "lesson package has no remaining lessons")
		case errors.Is(err, ErrPackageExpired):
			return nil, apperr.New(apperr.FailedPrecondition, "lesson package has expired")
		case errors.Is(err, ErrSlotNotOpen):
			return nil, apperr.New(apperr.FailedPrecondition, "slot is no longer open")
		default:
			return nil, apperr.Wrap(apperr.Internal, "failed to book slot", err)
		}
	}

	metrics.RecordBooking("confirmed")
	s.notify(ctx, booking, false)

	return booking, nil
}

func (s *service) CancelBooking(ctx context.Context, clientID, bookingID int, isAdmin bool) error {
	if clientID <= 0 {
		return apperr.New(apperr.Unauthenticated, "not authenticated")
	}
	if bookingID <= 0 {
		return apperr.New(apperr.InvalidArgument, "booking_id is required")
	}

	booking, err := s.repo.CancelBooking(ctx, bookingID, clientID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			return apperr.New(apperr.NotFound, "booking not found")
		case errors.Is(err, ErrNotYourBooking):
			return apperr.New(apperr.FailedPrecondition, "you can only cancel your own bookings")
		case errors.Is(err, ErrAlreadyCancelled):
			return apperr.New(apperr.FailedPrecondition, "booking is already cancelled")
		default:
			return apperr.Wrap(apperr.Internal, "failed to cancel booking", err)
		}
	}

	metrics.RecordBookingCancellation()
	s.notify(ctx, booking, true)

	return nil
}

func (s *service) ListByClient(ctx context.Context, clientID int) ([]BookingWithDetails, error) {
	return s.repo.ListByClient(ctx, clientID)
}

func (s *service) ListByTrainer(ctx context.Context, trainerID int) ([]BookingWithDetails, error) {
	return s.repo.ListByTrainer(ctx, trainerID)
}

// notify queues the confirmation or cancellation email. Best effort:
// the booking already committed, so a mail failure is only logged.
func (s *service) notify(ctx context.Context, booking *Booking, cancelled bool) {
	if s.emailService == nil {
		return
	}

	client, err := s.userRepo.FindByID(ctx, booking.ClientID)
	if err != nil {
		logger.Errorf("Failed to load client %d for booking email: %v", booking.ClientID, err)
		return
	}

	trainerName := "your trainer"
	if t, err := s.trainerRepo.GetByID(ctx, booking.TrainerID); err == nil {
		trainerName = t.Name
	}

	if cancelled {
		err = s.emailService.SendBookingCancellation(ctx, client.Email, client.Name, trainerName, booking.StartTime)
	} else {
		err = s.emailService.SendBookingConfirmation(ctx, client.Email, client.Name, trainerName, booking.StartTime)
	}
	if err != nil {
		logger.Errorf("Failed to queue booking email for %s: %v", client.Email, err)
	}
}
