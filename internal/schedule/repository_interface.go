package schedule

import (
	"context"
	"time"
)

type Repository interface {
	// InsertOpenSlot writes a new open slot and reports whether a row
	// was actually created. An existing slot under the same key is left
	// untouched and the call returns false.
	InsertOpenSlot(ctx context.Context, slot Slot) (bool, error)
	GetSlotByID(ctx context.Context, id string) (*Slot, error)
	// UpsertSlotStatus creates the slot or flips it between open and
	// unavailable. It never touches a booked slot.
	UpsertSlotStatus(ctx context.Context, slot Slot) (*Slot, error)
	DeleteSlot(ctx context.Context, id string) error
	ListSlots(ctx context.Context, trainerID int, from, to time.Time) ([]Slot, error)
}
