package booking

import "time"

type Status string

const (
	StatusBooked    Status = "booked"
	StatusCancelled Status = "cancelled"
)

// Booking is the immutable record of a completed reservation. It links
// the client, trainer, slot and the lesson package that paid for it.
// After creation only the status field moves, and only to cancelled.
type Booking struct {
	ID        int       `db:"id" json:"id"`
	Reference string    `db:"reference" json:"reference"`
	ClientID  int       `db:"client_id" json:"client_id"`
	TrainerID int       `db:"trainer_id" json:"trainer_id"`
	SlotID    string    `db:"slot_id" json:"slot_id"`
	PackageID int       `db:"package_id" json:"package_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type BookingWithDetails struct {
	Booking
	TrainerName string `db:"trainer_name" json:"trainer_name"`
	ClientName  string `db:"client_name" json:"client_name"`
}

type BookSlotRequest struct {
	TrainerID int `json:"trainer_id" binding:"required"`
	PackageID int `json:"package_id" binding:"required"`
}

type BookSlotResponse struct {
	Message   string   `json:"message"`
	BookingID int      `json:"booking_id"`
	Booking   *Booking `json:"booking"`
}
