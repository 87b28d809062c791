package booking

import "context"

type Repository interface {
	// BookSlot runs the whole reservation as one transaction: checks
	// the client, trainer, package and slot against a locked snapshot,
	// then debits the package, marks the slot booked and writes the
	// booking record. Any failure leaves no partial effect.
	BookSlot(ctx context.Context, trainerID int, slotID string, clientID, packageID int) (*Booking, error)
	// CancelBooking reverses a booking atomically: the booking moves to
	// cancelled, the slot reopens and the lesson credit is refunded.
	CancelBooking(ctx context.Context, bookingID, clientID int, isAdmin bool) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	ListByClient(ctx context.Context, clientID int) ([]BookingWithDetails, error)
	ListByTrainer(ctx context.Context, trainerID int) ([]BookingWithDetails, error)
}
