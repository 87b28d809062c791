package lessons

import "time"

type PackageType string

const (
	TypeSingle  PackageType = "single"
	TypePack5   PackageType = "pack5"
	TypePack10  PackageType = "pack10"
	TypeMonthly PackageType = "monthly"
)

// LessonsFor returns the credit count a package type grants, or 0 for
// an unknown type.
func LessonsFor(t PackageType) int {
	switch t {
	case TypeSingle:
		return 1
	case TypePack5:
		return 5
	case TypePack10:
		return 10
	case TypeMonthly:
		return 12
	default:
		return 0
	}
}

// Package is a purchased bundle of consumable lesson credits. Created
// on payment confirmation; LessonsUsed moves only inside the booking
// and cancellation transactions; never deleted.
type Package struct {
	ID             int         `db:"id" json:"id"`
	ClientID       int         `db:"client_id" json:"client_id"`
	Type           PackageType `db:"type" json:"type"`
	TotalLessons   int         `db:"total_lessons" json:"total_lessons"`
	LessonsUsed    int         `db:"lessons_used" json:"lessons_used"`
	PaymentRef     string      `db:"payment_ref" json:"payment_ref"`
	PurchaseDate   time.Time   `db:"purchase_date" json:"purchase_date"`
	ExpirationDate *time.Time  `db:"expiration_date" json:"expiration_date,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

func (p *Package) Remaining() int {
	remaining := p.TotalLessons - p.LessonsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (p *Package) IsExpired(now time.Time) bool {
	return p.ExpirationDate != nil && p.ExpirationDate.Before(now)
}

type ConfirmPaymentRequest struct {
	ClientID   int    `json:"client_id" binding:"required"`
	Type       string `json:"type" binding:"required,oneof=single pack5 pack10 monthly"`
	PaymentRef string `json:"payment_ref"`
}
