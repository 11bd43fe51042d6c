package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
	appErrors "github.com/Sabbir-Coder/AssetVerse-Server/pkg/errors"
)

type paymentRepoStub struct {
	payments map[string]*models.Payment
}

func newPaymentRepoStub() *paymentRepoStub {
	return &paymentRepoStub{payments: make(map[string]*models.Payment)}
}

func (r *paymentRepoStub) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = "pay-1"
	}
	r.payments[payment.SessionID] = payment
	return nil
}

func (r *paymentRepoStub) FindBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	if payment, ok := r.payments[sessionID]; ok {
		copy := *payment
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r *paymentRepoStub) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	for _, payment := range r.payments {
		if payment.ID == id {
			payment.Status = models.PaymentStatusPaid
			payment.PaidAt = &paidAt
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *paymentRepoStub) ListByHR(ctx context.Context, hrEmail string) ([]models.Payment, error) {
	var result []models.Payment
	for _, payment := range r.payments {
		if payment.HREmail == hrEmail {
			result = append(result, *payment)
		}
	}
	return result, nil
}

type limitUpdaterStub struct {
	email string
	limit int
}

func (u *limitUpdaterStub) UpdatePackageLimit(ctx context.Context, email string, limit int) error {
	u.email = email
	u.limit = limit
	return nil
}

type providerStub struct {
	session *CheckoutSession
	err     error
	params  CheckoutSessionParams
}

func (p *providerStub) CreateSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	p.params = params
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}

func TestPaymentServiceCreateCheckoutSession(t *testing.T) {
	repo := newPaymentRepoStub()
	users := &limitUpdaterStub{}
	provider := &providerStub{session: &CheckoutSession{ID: "sess-1", RedirectURL: "https://pay.example.com/sess-1"}}
	svc := NewPaymentService(repo, users, provider, "usd", nil)

	resp, err := svc.CreateCheckoutSession(context.Background(), "hr@corp.com", "growth")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, "https://pay.example.com/sess-1", resp.RedirectURL)
	assert.Equal(t, int64(800), provider.params.AmountCents)
	assert.Equal(t, "hr@corp.com", provider.params.Customer)

	stored := repo.payments["sess-1"]
	require.NotNil(t, stored)
	assert.Equal(t, models.PaymentStatusCreated, stored.Status)
	assert.Equal(t, 10, stored.MemberLimit)
}

func TestPaymentServiceCreateCheckoutSessionUnknownPackage(t *testing.T) {
	svc := NewPaymentService(newPaymentRepoStub(), &limitUpdaterStub{}, &providerStub{}, "usd", nil)

	_, err := svc.CreateCheckoutSession(context.Background(), "hr@corp.com", "platinum")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceCreateCheckoutSessionProviderDown(t *testing.T) {
	provider := &providerStub{err: errors.New("connection refused")}
	svc := NewPaymentService(newPaymentRepoStub(), &limitUpdaterStub{}, provider, "usd", nil)

	_, err := svc.CreateCheckoutSession(context.Background(), "hr@corp.com", "starter")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceConfirm(t *testing.T) {
	repo := newPaymentRepoStub()
	repo.payments["sess-1"] = &models.Payment{
		ID: "pay-1", HREmail: "hr@corp.com", PackageName: "scale",
		MemberLimit: 20, Status: models.PaymentStatusCreated, SessionID: "sess-1",
	}
	users := &limitUpdaterStub{}
	svc := NewPaymentService(repo, users, &providerStub{}, "usd", nil)

	payment, err := svc.Confirm(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
	assert.NotNil(t, payment.PaidAt)
	assert.Equal(t, "hr@corp.com", users.email)
	assert.Equal(t, 20, users.limit)
}

func TestPaymentServiceConfirmUnknownSession(t *testing.T) {
	svc := NewPaymentService(newPaymentRepoStub(), &limitUpdaterStub{}, &providerStub{}, "usd", nil)

	_, err := svc.Confirm(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceConfirmTwice(t *testing.T) {
	repo := newPaymentRepoStub()
	repo.payments["sess-1"] = &models.Payment{
		ID: "pay-1", HREmail: "hr@corp.com", MemberLimit: 10,
		Status: models.PaymentStatusCreated, SessionID: "sess-1",
	}
	svc := NewPaymentService(repo, &limitUpdaterStub{}, &providerStub{}, "usd", nil)

	_, err := svc.Confirm(context.Background(), "sess-1")
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), "sess-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestPaymentServicePackages(t *testing.T) {
	svc := NewPaymentService(newPaymentRepoStub(), &limitUpdaterStub{}, &providerStub{}, "usd", nil)

	packages := svc.Packages()
	require.Len(t, packages, 3)
	assert.Equal(t, "starter", packages[0].Name)
	assert.Equal(t, int64(1500), packages[2].PriceCents)
}
