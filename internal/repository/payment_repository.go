package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
)

// PaymentRepository manages persistence for package purchases.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, hr_email, package_name, amount_cents, currency, member_limit, status, session_id, created_at, paid_at`

// Create records a checkout attempt.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusCreated
	}
	const query = `INSERT INTO payments (id, hr_email, package_name, amount_cents, currency, member_limit, status, session_id, created_at)
        VALUES (:id, :hr_email, :package_name, :amount_cents, :currency, :member_limit, :status, :session_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// FindBySessionID returns the payment linked to a provider session.
func (r *PaymentRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE session_id = $1`, paymentColumns)
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, sessionID); err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkPaid transitions the payment to paid with a timestamp.
func (r *PaymentRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	const query = `UPDATE payments SET status = $2, paid_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.PaymentStatusPaid, paidAt); err != nil {
		return fmt.Errorf("mark payment paid: %w", err)
	}
	return nil
}

// ListByHR returns the purchase history for an HR account.
func (r *PaymentRepository) ListByHR(ctx context.Context, hrEmail string) ([]models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE hr_email = $1 ORDER BY created_at DESC`, paymentColumns)
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, hrEmail); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}
