package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
	appErrors "github.com/Sabbir-Coder/AssetVerse-Server/pkg/errors"
)

type assetRepository interface {
	List(ctx context.Context, filter models.AssetFilter) ([]models.Asset, int, error)
	FindByID(ctx context.Context, id string) (*models.Asset, error)
	Create(ctx context.Context, asset *models.Asset) error
	Update(ctx context.Context, id string, patch models.AssetPatch) error
	Delete(ctx context.Context, id string) error
}

// CreateAssetRequest holds payload for registering assets.
type CreateAssetRequest struct {
	ProductName string `json:"product_name" validate:"required"`
	ProductType string `json:"product_type" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	ImageURL    string `json:"image_url"`
	Returnable  bool   `json:"returnable"`
	Description string `json:"description"`
}

// UpdateAssetRequest holds payload for editing assets.
type UpdateAssetRequest struct {
	ProductName string `json:"product_name" validate:"required"`
	ProductType string `json:"product_type" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	ImageURL    string `json:"image_url"`
	Returnable  bool   `json:"returnable"`
	Description string `json:"description"`
}

// AssetService handles asset registration, edits and deletion including the
// denormalized propagation to requests and assignments.
type AssetService struct {
	repo      assetRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssetService constructs the asset service.
func NewAssetService(repo assetRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AssetService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns assets and pagination metadata.
func (s *AssetService) List(ctx context.Context, filter models.AssetFilter) ([]models.Asset, *models.Pagination, error) {
	assets, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assets")
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
	return assets, pagination, nil
}

// Get returns a single asset.
func (s *AssetService) Get(ctx context.Context, id string) (*models.Asset, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "asset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
	}
	return asset, nil
}

// Create registers a new asset owned by the HR.
func (s *AssetService) Create(ctx context.Context, req CreateAssetRequest, owner *models.User) (*models.Asset, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid asset payload")
	}
	asset := &models.Asset{
		ProductName: req.ProductName,
		ProductType: req.ProductType,
		Quantity:    req.Quantity,
		HREmail:     owner.Email,
		CompanyName: owner.CompanyName,
		ImageURL:    req.ImageURL,
		Returnable:  req.Returnable,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create asset")
	}
	return asset, nil
}

// Update edits the asset and propagates product fields to dependent rows.
func (s *AssetService) Update(ctx context.Context, id string, req UpdateAssetRequest) (*models.Asset, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid asset payload")
	}
	patch := models.AssetPatch{
		ProductName: req.ProductName,
		ProductType: req.ProductType,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
		Returnable:  req.Returnable,
		Description: req.Description,
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "asset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update asset")
	}

	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload asset")
	}
	s.invalidateAggregation(ctx, asset.HREmail)
	return asset, nil
}

// Delete removes the asset and cascades to requests and assignments.
func (s *AssetService) Delete(ctx context.Context, id string) error {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "asset not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "asset not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete asset")
	}
	s.invalidateAggregation(ctx, asset.HREmail)
	return nil
}

func (s *AssetService) invalidateAggregation(ctx context.Context, hrEmail string) {
	if err := s.cache.Invalidate(ctx, aggregationCacheKey(hrEmail)); err != nil {
		s.logger.Warn("failed to invalidate aggregation cache", zap.String("hr_email", hrEmail), zap.Error(err))
	}
}
