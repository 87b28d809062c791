package trainer

import "time"

type Trainer struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Specialty string    `db:"specialty" json:"specialty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateTrainerRequest struct {
	UserID    int    `json:"user_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty" binding:"required"`
}
