package lessons

import (
	"context"
	"time"
)

type Repository interface {
	// CreatePackage records a confirmed purchase. PaymentRef is the
	// idempotency key: a repeated confirmation for the same reference
	// returns the already-created package instead of a duplicate.
	CreatePackage(ctx context.Context, clientID int, packageType PackageType, totalLessons int, paymentRef string, expiration *time.Time) (*Package, error)
	GetByID(ctx context.Context, id int) (*Package, error)
	ListByClient(ctx context.Context, clientID int) ([]Package, error)
}
