package trainer

import "context"

type Repository interface {
	Create(ctx context.Context, userID int, name, specialty string) (*Trainer, error)
	GetByID(ctx context.Context, id int) (*Trainer, error)
	GetByUserID(ctx context.Context, userID int) (*Trainer, error)
	ListActive(ctx context.Context) ([]Trainer, error)
	SetActive(ctx context.Context, id int, active bool) error
}
