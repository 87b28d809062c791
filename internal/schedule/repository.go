package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrSlotBooked   = errors.New("slot is booked")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertOpenSlot(ctx context.Context, slot Slot) (bool, error) {
	query := `
		INSERT INTO slots (id, trainer_id, status, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, slot.ID, slot.TrainerID, StatusOpen, slot.StartTime, slot.EndTime)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

func (r *repository) GetSlotByID(ctx context.Context, id string) (*Slot, error) {
	query := `
		SELECT id, trainer_id, status, start_time, end_time,
		       client_id, client_name, class_id, booked_at, created_at, updated_at
		FROM slots
		WHERE id = $1
	`

	var slot Slot
	err := r.db.GetContext(ctx, &slot, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	if err := slot.Validate(); err != nil {
		return nil, fmt.Errorf("corrupt slot record %s: %w", slot.ID, err)
	}
	slot.Normalize()

	return &slot, nil
}

func (r *repository) UpsertSlotStatus(ctx context.Context, slot Slot) (*Slot, error) {
	// The DO UPDATE guard keeps booked slots out of reach: the update
	// applies only to unoccupied rows, so a booked slot yields no row.
	query := `
		INSERT INTO slots (id, trainer_id, status, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, updated_at = NOW()
		WHERE slots.status <> 'booked' AND slots.client_id IS NULL AND slots.class_id IS NULL
		RETURNING id, trainer_id, status, start_time, end_time,
		          client_id, client_name, class_id, booked_at, created_at, updated_at
	`

	var updated Slot
	err := r.db.GetContext(ctx, &updated, query, slot.ID, slot.TrainerID, slot.Status, slot.StartTime, slot.EndTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotBooked
		}
		return nil, err
	}

	return &updated, nil
}

func (r *repository) DeleteSlot(ctx context.Context, id string) error {
	query := `
		DELETE FROM slots
		WHERE id = $1 AND status <> 'booked' AND client_id IS NULL AND class_id IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Distinguish a missing slot from a booked one.
		var exists bool
		err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM slots WHERE id = $1)`, id)
		if err != nil {
			return err
		}
		if exists {
			return ErrSlotBooked
		}
		return ErrSlotNotFound
	}

	return nil
}

func (r *repository) ListSlots(ctx context.Context, trainerID int, from, to time.Time) ([]Slot, error) {
	query := `
		SELECT id, trainer_id, status, start_time, end_time,
		       client_id, client_name, class_id, booked_at, created_at, updated_at
		FROM slots
		WHERE trainer_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time ASC
	`

	var slots []Slot
	err := r.db.SelectContext(ctx, &slots, query, trainerID, from, to)
	if err != nil {
		return nil, err
	}

	for i := range slots {
		if err := slots[i].Validate(); err != nil {
			return nil, fmt.Errorf("corrupt slot record %s: %w", slots[i].ID, err)
		}
		slots[i].Normalize()
	}

	return slots, nil
}
