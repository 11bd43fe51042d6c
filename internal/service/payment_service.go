package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/dto"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
	appErrors "github.com/Sabbir-Coder/AssetVerse-Server/pkg/errors"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindBySessionID(ctx context.Context, sessionID string) (*models.Payment, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
	ListByHR(ctx context.Context, hrEmail string) ([]models.Payment, error)
}

type packageLimitUpdater interface {
	UpdatePackageLimit(ctx context.Context, email string, limit int) error
}

// CheckoutSessionParams describes a session to open with the provider.
type CheckoutSessionParams struct {
	AmountCents int64
	Currency    string
	Description string
	Reference   string
	Customer    string
}

// CheckoutSession is the provider's answer: where to send the buyer.
type CheckoutSession struct {
	ID          string
	RedirectURL string
}

// CheckoutProvider is the external payment boundary.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
}

// The purchasable subscription tiers. Prices mirror the storefront.
var packageCatalog = []models.Package{
	{Name: "starter", MemberLimit: 5, PriceCents: 500},
	{Name: "growth", MemberLimit: 10, PriceCents: 800},
	{Name: "scale", MemberLimit: 20, PriceCents: 1500},
}

// PaymentService sells member packages through the checkout provider.
type PaymentService struct {
	repo     paymentRepository
	users    packageLimitUpdater
	provider CheckoutProvider
	currency string
	logger   *zap.Logger
}

// NewPaymentService constructs the payment service.
func NewPaymentService(repo paymentRepository, users packageLimitUpdater, provider CheckoutProvider, currency string, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{repo: repo, users: users, provider: provider, currency: currency, logger: logger}
}

// Packages lists the purchasable tiers.
func (s *PaymentService) Packages() []models.Package {
	catalog := make([]models.Package, len(packageCatalog))
	copy(catalog, packageCatalog)
	return catalog
}

func findPackage(name string) (models.Package, bool) {
	for _, pkg := range packageCatalog {
		if pkg.Name == name {
			return pkg, true
		}
	}
	return models.Package{}, false
}

// CreateCheckoutSession opens a provider session for the package and records
// the pending payment.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, hrEmail, packageName string) (*dto.CheckoutSessionResponse, error) {
	pkg, ok := findPackage(packageName)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown package")
	}

	session, err := s.provider.CreateSession(ctx, CheckoutSessionParams{
		AmountCents: pkg.PriceCents,
		Currency:    s.currency,
		Description: "AssetVerse " + pkg.Name + " package",
		Reference:   pkg.Name,
		Customer:    hrEmail,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "checkout provider unavailable")
	}

	payment := &models.Payment{
		HREmail:     hrEmail,
		PackageName: pkg.Name,
		AmountCents: pkg.PriceCents,
		Currency:    s.currency,
		MemberLimit: pkg.MemberLimit,
		Status:      models.PaymentStatusCreated,
		SessionID:   session.ID,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	return &dto.CheckoutSessionResponse{
		PaymentID:   payment.ID,
		SessionID:   session.ID,
		RedirectURL: session.RedirectURL,
	}, nil
}

// Confirm marks the session paid and raises the buyer's member limit.
func (s *PaymentService) Confirm(ctx context.Context, sessionID string) (*models.Payment, error) {
	payment, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	if payment.Status == models.PaymentStatusPaid {
		return nil, appErrors.Clone(appErrors.ErrConflict, "payment already confirmed")
	}

	paidAt := time.Now().UTC()
	if err := s.repo.MarkPaid(ctx, payment.ID, paidAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment")
	}
	if err := s.users.UpdatePackageLimit(ctx, payment.HREmail, payment.MemberLimit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply package limit")
	}

	payment.Status = models.PaymentStatusPaid
	payment.PaidAt = &paidAt
	return payment, nil
}

// History returns the HR's purchase history.
func (s *PaymentService) History(ctx context.Context, hrEmail string) ([]models.Payment, error) {
	payments, err := s.repo.ListByHR(ctx, hrEmail)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}
