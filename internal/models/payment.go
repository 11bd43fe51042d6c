package models

import "time"

// PaymentStatus tracks a checkout-session purchase.
type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "created"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment records a package purchase routed through the checkout provider.
type Payment struct {
	ID          string        `db:"id" json:"id"`
	HREmail     string        `db:"hr_email" json:"hr_email"`
	PackageName string        `db:"package_name" json:"package_name"`
	AmountCents int64         `db:"amount_cents" json:"amount_cents"`
	Currency    string        `db:"currency" json:"currency"`
	MemberLimit int           `db:"member_limit" json:"member_limit"`
	Status      PaymentStatus `db:"status" json:"status"`
	SessionID   string        `db:"session_id" json:"session_id"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	PaidAt      *time.Time    `db:"paid_at" json:"paid_at,omitempty"`
}

// Package is a purchasable subscription tier.
type Package struct {
	Name        string `json:"name"`
	MemberLimit int    `json:"member_limit"`
	PriceCents  int64  `json:"price_cents"`
}
