package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/repository"
	appErrors "github.com/Sabbir-Coder/AssetVerse-Server/pkg/errors"
)

type requestRepository interface {
	Create(ctx context.Context, request *models.AssetRequest) error
	FindByID(ctx context.Context, id string) (*models.AssetRequest, error)
	List(ctx context.Context, filter models.RequestFilter) ([]models.AssetRequest, int, error)
	Approve(ctx context.Context, id, processor string) (*models.Assignment, error)
	Reject(ctx context.Context, id, processor string) error
}

// CreateRequestPayload holds the employee's ask for an asset. Product fields
// are a client-supplied snapshot; availability is checked only at approval.
type CreateRequestPayload struct {
	AssetID     string `json:"asset_id" validate:"required"`
	ProductName string `json:"product_name" validate:"required"`
	ProductType string `json:"product_type"`
	ImageURL    string `json:"image_url"`
	HREmail     string `json:"hr_email" validate:"required,email"`
	CompanyName string `json:"company_name"`
	Note        string `json:"note"`
}

// RequestService drives the request lifecycle: Pending resolves exactly once
// to Approved or Rejected, and approval assigns the asset.
type RequestService struct {
	repo      requestRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRequestService constructs the request service.
func NewRequestService(repo requestRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *RequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Create registers a new pending request for the employee.
func (s *RequestService) Create(ctx context.Context, payload CreateRequestPayload, requester *models.User) (*models.AssetRequest, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
	}
	request := &models.AssetRequest{
		AssetID:        payload.AssetID,
		ProductName:    payload.ProductName,
		ProductType:    payload.ProductType,
		ImageURL:       payload.ImageURL,
		RequesterEmail: requester.Email,
		RequesterName:  requester.FullName,
		HREmail:        payload.HREmail,
		CompanyName:    payload.CompanyName,
		Note:           payload.Note,
		Status:         models.RequestStatusPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create request")
	}
	return request, nil
}

// List returns requests and pagination metadata.
func (s *RequestService) List(ctx context.Context, filter models.RequestFilter) ([]models.AssetRequest, *models.Pagination, error) {
	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return requests, pagination, nil
}

// Approve resolves a pending request, decrements the asset and creates the
// assignment. All of it commits or none of it does.
func (s *RequestService) Approve(ctx context.Context, id, processor string) (*models.Assignment, error) {
	assignment, err := s.repo.Approve(ctx, id, processor)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		case errors.Is(err, repository.ErrRequestProcessed):
			return nil, appErrors.Clone(appErrors.ErrConflict, "request already processed")
		case errors.Is(err, repository.ErrAssetMissing):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "referenced asset not found")
		case errors.Is(err, repository.ErrInsufficientQuantity):
			return nil, appErrors.Clone(appErrors.ErrConflict, "insufficient asset quantity")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve request")
		}
	}

	s.metrics.RecordResolution("approved")
	if err := s.cache.Invalidate(ctx, aggregationCacheKey(assignment.HREmail)); err != nil {
		s.logger.Warn("failed to invalidate aggregation cache", zap.String("hr_email", assignment.HREmail), zap.Error(err))
	}
	return assignment, nil
}

// Reject resolves a pending request without touching assets or assignments.
func (s *RequestService) Reject(ctx context.Context, id, processor string) (*models.AssetRequest, error) {
	if err := s.repo.Reject(ctx, id, processor); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		case errors.Is(err, repository.ErrRequestProcessed):
			return nil, appErrors.Clone(appErrors.ErrConflict, "request already processed")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject request")
		}
	}

	s.metrics.RecordResolution("rejected")

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload request")
	}
	return request, nil
}
