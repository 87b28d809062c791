package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"trainerbook/internal/lessons"
	"trainerbook/internal/schedule"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrClientNotFound   = errors.New("client not found")
	ErrTrainerNotFound  = errors.New("trainer not found")
	ErrPackageNotFound  = errors.New("lesson package not found")
	ErrPackageExhausted = errors.New("lesson package has no remaining lessons")
	ErrPackageExpired   = errors.New("lesson package has expired")
	ErrSlotNotFound     = errors.New("slot not found")
	ErrSlotNotOpen      = errors.New("slot is not open")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrNotYourBooking   = errors.New("booking belongs to another client")
)

const bookingColumns = `id, reference, client_id, trainer_id, slot_id, package_id,
	start_time, end_time, status, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// BookSlot locks the package row first and the slot row second; the
// cancellation path uses the same order so the two cannot deadlock.
// All preconditions are evaluated against the locked rows, never
// against an earlier read.
func (r *repository) BookSlot(ctx context.Context, trainerID int, slotID string, clientID, packageID int) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var clientName string
	err = tx.GetContext(ctx, &clientName, `SELECT name FROM users WHERE id = $1`, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	var trainerExists bool
	err = tx.GetContext(ctx, &trainerExists, `SELECT EXISTS(SELECT 1 FROM trainers WHERE id = $1)`, trainerID)
	if err != nil {
		return nil, err
	}
	if !trainerExists {
		return nil, ErrTrainerNotFound
	}

	var pkg lessons.Package
	err = tx.GetContext(ctx, &pkg, `
		SELECT id, client_id, type, total_lessons, lessons_used, payment_ref,
		       purchase_date, expiration_date, created_at, updated_at
		FROM lesson_packages
		WHERE id = $1
		FOR UPDATE
	`, packageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	if pkg.ClientID != clientID {
		return nil, ErrPackageNotFound
	}
	if pkg.IsExpired(time.Now()) {
		return nil, ErrPackageExpired
	}
	if pkg.Remaining() == 0 {
		return nil, ErrPackageExhausted
	}

	var slot schedule.Slot
	err = tx.GetContext(ctx, &slot, `
		SELECT id, trainer_id, status, start_time, end_time,
		       client_id, client_name, class_id, booked_at, created_at, updated_at
		FROM slots
		WHERE id = $1 AND trainer_id = $2
		FOR UPDATE
	`, slotID, trainerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	slot.Normalize()
	if slot.Status != schedule.StatusOpen || slot.IsBooked() {
		return nil, ErrSlotNotOpen
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE lesson_packages
		SET lessons_used = lessons_used + 1, updated_at = NOW()
		WHERE id = $1
	`, packageID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE slots
		SET status = $1, client_id = $2, client_name = $3, booked_at = NOW(), updated_at = NOW()
		WHERE id = $4
	`, schedule.StatusBooked, clientID, clientName, slotID)
	if err != nil {
		return nil, err
	}

	var booking Booking
	err = tx.GetContext(ctx, &booking, `
		INSERT INTO bookings (reference, client_id, trainer_id, slot_id, package_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+bookingColumns,
		uuid.NewString(), clientID, trainerID, slotID, packageID, slot.StartTime, slot.EndTime, StatusBooked,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *repository) CancelBooking(ctx context.Context, bookingID, clientID int, isAdmin bool) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var booking Booking
	err = tx.GetContext(ctx, &booking, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if !isAdmin && booking.ClientID != clientID {
		return nil, ErrNotYourBooking
	}
	if booking.Status != StatusBooked {
		return nil, ErrAlreadyCancelled
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE lesson_packages
		SET lessons_used = GREATEST(lessons_used - 1, 0), updated_at = NOW()
		WHERE id = $1
	`, booking.PackageID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE slots
		SET status = $1, client_id = NULL, client_name = NULL, booked_at = NULL, updated_at = NOW()
		WHERE id = $2
	`, schedule.StatusOpen, booking.SlotID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE bookings
		SET status = $1
		WHERE id = $2
	`, StatusCancelled, bookingID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	booking.Status = StatusCancelled
	return &booking, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID int) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id, b.reference, b.client_id, b.trainer_id, b.slot_id, b.package_id,
			b.start_time, b.end_time, b.status, b.created_at,
			t.name AS trainer_name,
			u.name AS client_name
		FROM bookings b
		JOIN trainers t ON b.trainer_id = t.id
		JOIN users u ON b.client_id = u.id
		WHERE b.client_id = $1
		ORDER BY b.start_time DESC
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, clientID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) ListByTrainer(ctx context.Context, trainerID int) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id, b.reference, b.client_id, b.trainer_id, b.slot_id, b.package_id,
			b.start_time, b.end_time, b.status, b.created_at,
			t.name AS trainer_name,
			u.name AS client_name
		FROM bookings b
		JOIN trainers t ON b.trainer_id = t.id
		JOIN users u ON b.client_id = u.id
		WHERE b.trainer_id = $1
		ORDER BY b.start_time DESC
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, trainerID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
