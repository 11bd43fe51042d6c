package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
	appErrors "github.com/Sabbir-Coder/AssetVerse-Server/pkg/errors"
)

type userRepository interface {
	Upsert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
	ListByCompany(ctx context.Context, company string) ([]models.User, error)
	UpdatePackageLimit(ctx context.Context, email string, limit int) error
}

func roleCacheKey(email string) string {
	return "users:role:" + email
}

// The starter member allowance for a fresh HR account before any package
// purchase.
const defaultHRPackageLimit = 5

// CreateUserRequest represents the sign-up sync payload.
type CreateUserRequest struct {
	Email       string          `json:"email" validate:"required,email"`
	FullName    string          `json:"full_name" validate:"required"`
	Role        models.UserRole `json:"role" validate:"required,oneof=hr employee admin"`
	CompanyName string          `json:"company_name"`
	CompanyLogo string          `json:"company_logo"`
	PhotoURL    string          `json:"photo_url"`
	DateOfBirth *time.Time      `json:"date_of_birth"`
	Position    string          `json:"position"`
}

// UpcomingBirthday pairs an employee with the days until their birthday.
type UpcomingBirthday struct {
	User      models.User `json:"user"`
	DaysUntil int         `json:"days_until"`
}

// UserService handles profile sync and the company/employee projections.
type UserService struct {
	repo      userRepository
	cache     *CacheService
	roleTTL   time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, cache *CacheService, roleTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, cache: cache, roleTTL: roleTTL, validator: validate, logger: logger}
}

// Create syncs a user profile from the identity provider. Repeated sign-ins
// for the same email refresh the profile instead of failing.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user := &models.User{
		Email:       strings.ToLower(req.Email),
		FullName:    req.FullName,
		Role:        req.Role,
		CompanyName: req.CompanyName,
		CompanyLogo: req.CompanyLogo,
		PhotoURL:    req.PhotoURL,
		DateOfBirth: req.DateOfBirth,
		Position:    req.Position,
	}
	if user.Role == models.RoleHR {
		user.PackageLimit = defaultHRPackageLimit
	}
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save user")
	}

	if err := s.cache.Invalidate(ctx, roleCacheKey(user.Email)); err != nil {
		s.logger.Warn("failed to invalidate role cache", zap.String("email", user.Email), zap.Error(err))
	}
	return user, nil
}

// List returns paginated users and pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
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
	return users, pagination, nil
}

// GetByEmail returns a user profile.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// RoleByEmail resolves the user's role, serving from cache when possible.
func (s *UserService) RoleByEmail(ctx context.Context, email string) (models.UserRole, error) {
	email = strings.ToLower(email)
	key := roleCacheKey(email)

	var cached models.UserRole
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit && cached != "" {
		return cached, nil
	}

	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, key, user.Role, s.roleTTL); err != nil {
		s.logger.Warn("failed to cache role", zap.String("email", email), zap.Error(err))
	}
	return user.Role, nil
}

// ListCompanies returns every distinct HR-owned company.
func (s *UserService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list companies")
	}
	return companies, nil
}

// ListEmployees returns the employees affiliated with the company.
func (s *UserService) ListEmployees(ctx context.Context, company string) ([]models.User, error) {
	if company == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "company is required")
	}
	employees, err := s.repo.ListByCompany(ctx, company)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	return employees, nil
}

// UpcomingBirthdays returns the company employees whose birthday falls within
// the window, soonest first.
func (s *UserService) UpcomingBirthdays(ctx context.Context, company string, withinDays int) ([]UpcomingBirthday, error) {
	employees, err := s.ListEmployees(ctx, company)
	if err != nil {
		return nil, err
	}
	if withinDays <= 0 {
		withinDays = 30
	}
	return FilterUpcomingBirthdays(employees, time.Now().UTC(), withinDays), nil
}

// FilterUpcomingBirthdays is a pure projection over a fetched user slice.
// The next birthday occurrence is computed per user; the window wraps over
// year end.
func FilterUpcomingBirthdays(users []models.User, now time.Time, withinDays int) []UpcomingBirthday {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var upcoming []UpcomingBirthday
	for _, user := range users {
		if user.DateOfBirth == nil {
			continue
		}
		dob := *user.DateOfBirth
		next := time.Date(today.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
		if next.Before(today) {
			next = time.Date(today.Year()+1, dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
		}
		days := int(next.Sub(today).Hours() / 24)
		if days <= withinDays {
			upcoming = append(upcoming, UpcomingBirthday{User: user, DaysUntil: days})
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		if upcoming[i].DaysUntil == upcoming[j].DaysUntil {
			return upcoming[i].User.Email < upcoming[j].User.Email
		}
		return upcoming[i].DaysUntil < upcoming[j].DaysUntil
	})
	return upcoming
}
