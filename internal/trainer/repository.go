package trainer

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrTrainerNotFound = errors.New("trainer not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID int, name, specialty string) (*Trainer, error) {
	query := `
		INSERT INTO trainers (user_id, name, specialty, active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, user_id, name, specialty, active, created_at
	`

	var trainer Trainer
	err := r.db.GetContext(ctx, &trainer, query, userID, name, specialty)
	if err != nil {
		return nil, err
	}

	return &trainer, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Trainer, error) {
	query := `
		SELECT id, user_id, name, specialty, active, created_at
		FROM trainers
		WHERE id = $1
	`

	var trainer Trainer
	err := r.db.GetContext(ctx, &trainer, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	return &trainer, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID int) (*Trainer, error) {
	query := `
		SELECT id, user_id, name, specialty, active, created_at
		FROM trainers
		WHERE user_id = $1
	`

	var trainer Trainer
	err := r.db.GetContext(ctx, &trainer, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	return &trainer, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Trainer, error) {
	query := `
		SELECT id, user_id, name, specialty, active, created_at
		FROM trainers
		WHERE active = TRUE
		ORDER BY name ASC
	`

	var trainers []Trainer
	err := r.db.SelectContext(ctx, &trainers, query)
	if err != nil {
		return nil, err
	}

	return trainers, nil
}

func (r *repository) SetActive(ctx context.Context, id int, active bool) error {
	query := `
		UPDATE trainers
		SET active = $1
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrTrainerNotFound
	}

	return nil
}
