package lessons

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrPackageNotFound = errors.New("lesson package not found")

const packageColumns = `id, client_id, type, total_lessons, lessons_used, payment_ref,
	purchase_date, expiration_date, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePackage(ctx context.Context, clientID int, packageType PackageType, totalLessons int, paymentRef string, expiration *time.Time) (*Package, error) {
	query := `
		INSERT INTO lesson_packages (client_id, type, total_lessons, payment_ref, purchase_date, expiration_date)
		VALUES ($1, $2, $3, $4, NOW(), $5)
		ON CONFLICT (payment_ref) DO NOTHING
		RETURNING ` + packageColumns

	var pkg Package
	err := r.db.GetContext(ctx, &pkg, query, clientID, packageType, totalLessons, paymentRef, expiration)
	if err == nil {
		return &pkg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Conflict: the reference was already confirmed. Return the
	// existing package so confirmation stays idempotent.
	err = r.db.GetContext(ctx, &pkg,
		`SELECT `+packageColumns+` FROM lesson_packages WHERE payment_ref = $1`,
		paymentRef,
	)
	if err != nil {
		return nil, err
	}

	return &pkg, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Package, error) {
	query := `SELECT ` + packageColumns + ` FROM lesson_packages WHERE id = $1`

	var pkg Package
	err := r.db.GetContext(ctx, &pkg, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	return &pkg, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID int) ([]Package, error) {
	query := `
		SELECT ` + packageColumns + `
		FROM lesson_packages
		WHERE client_id = $1
		ORDER BY purchase_date DESC
	`

	var pkgs []Package
	err := r.db.SelectContext(ctx, &pkgs, query, clientID)
	if err != nil {
		return nil, err
	}

	return pkgs, nil
}
