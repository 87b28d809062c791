package schedule

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusOpen        Status = "open"
	StatusUnavailable Status = "unavailable"
	StatusBooked      Status = "booked"
)

var (
	ErrInvalidInterval = errors.New("slot end time must be after start time")
	ErrInvalidStatus   = errors.New("unknown slot status")
	ErrMixedOccupants  = errors.New("slot cannot hold both a client and a class")
	ErrNoOccupant      = errors.New("booked slot has no occupant")
)

// Slot is one bookable hour-granularity interval for one trainer.
// The interval is half-open: [StartTime, EndTime).
type Slot struct {
	ID         string     `db:"id" json:"id"`
	TrainerID  int        `db:"trainer_id" json:"trainer_id"`
	Status     Status     `db:"status" json:"status"`
	StartTime  time.Time  `db:"start_time" json:"start_time"`
	EndTime    time.Time  `db:"end_time" json:"end_time"`
	ClientID   *int       `db:"client_id" json:"client_id,omitempty"`
	ClientName *string    `db:"client_name" json:"client_name,omitempty"`
	ClassID    *int       `db:"class_id" json:"class_id,omitempty"`
	BookedAt   *time.Time `db:"booked_at" json:"booked_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// SlotID derives the slot key from its trainer and start hour. One
// trainer can never hold two slots for the same hour: re-creating a
// slot is an upsert on this key, not a new row.
func SlotID(trainerID int, start time.Time) string {
	return fmt.Sprintf("%d_%s", trainerID, start.UTC().Format("2006-01-02T15"))
}

// IsBooked treats a non-nil occupant as booked regardless of the stored
// status. Rows written before the explicit booked status existed carry
// an occupant with a stale status value.
func (s *Slot) IsBooked() bool {
	return s.Status == StatusBooked || s.ClientID != nil || s.ClassID != nil
}

func (s *Slot) IsClass() bool {
	return s.ClassID != nil
}

// Validate rejects contradictory rows instead of defaulting them.
func (s *Slot) Validate() error {
	if !s.EndTime.After(s.StartTime) {
		return ErrInvalidInterval
	}
	switch s.Status {
	case StatusOpen, StatusUnavailable, StatusBooked:
	default:
		return ErrInvalidStatus
	}
	if s.ClientID != nil && s.ClassID != nil {
		return ErrMixedOccupants
	}
	if s.Status == StatusBooked && s.ClientID == nil && s.ClassID == nil {
		return ErrNoOccupant
	}
	return nil
}

// Normalize upgrades a legacy row whose occupant is set but whose
// status predates the explicit booked value. One-way: it never clears
// an occupant or downgrades a status.
func (s *Slot) Normalize() {
	if s.Status != StatusBooked && (s.ClientID != nil || s.ClassID != nil) {
		s.Status = StatusBooked
	}
}
