package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/dto"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/repository"
	appErrors "github.com/Sabbir-Coder/AssetVerse-Server/pkg/errors"
	"github.com/Sabbir-Coder/AssetVerse-Server/pkg/export"
)

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error)
	ListAllForHR(ctx context.Context, hrEmail string) ([]models.Assignment, error)
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	Return(ctx context.Context, id string) error
}

type historyRepository interface {
	EmployeeHistory(ctx context.Context, email string) ([]dto.AssetHistoryItem, error)
}

func aggregationCacheKey(hrEmail string) string {
	return "assignments:aggregate:" + hrEmail
}

// AssignmentService serves the assignment projections: listings, the
// per-employee aggregation, asset history and report exports.
type AssignmentService struct {
	repo    assignmentRepository
	history historyRepository
	cache   *CacheService
	aggTTL  time.Duration
	logger  *zap.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(repo assignmentRepository, history historyRepository, cache *CacheService, aggTTL time.Duration, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, history: history, cache: cache, aggTTL: aggTTL, logger: logger}
}

// List returns assignments and pagination metadata.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, *models.Pagination, error) {
	assignments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
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
	return assignments, pagination, nil
}

// Return marks an assignment as returned.
func (s *AssignmentService) Return(ctx context.Context, id string) (*models.Assignment, error) {
	if err := s.repo.Return(ctx, id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		case errors.Is(err, repository.ErrAssignmentNotAssigned):
			return nil, appErrors.Clone(appErrors.ErrConflict, "assignment already returned")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to return assignment")
		}
	}

	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload assignment")
	}
	if err := s.cache.Invalidate(ctx, aggregationCacheKey(assignment.HREmail)); err != nil {
		s.logger.Warn("failed to invalidate aggregation cache", zap.String("hr_email", assignment.HREmail), zap.Error(err))
	}
	return assignment, nil
}

// EmployeeHistory returns the resolved requests for an employee joined with
// live asset data.
func (s *AssignmentService) EmployeeHistory(ctx context.Context, email string) ([]dto.AssetHistoryItem, error) {
	items, err := s.history.EmployeeHistory(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset history")
	}
	return items, nil
}

// AggregateByEmployee groups an HR's assignments per employee. The result is
// computed from a fetched snapshot and cached; the bool reports a cache hit.
func (s *AssignmentService) AggregateByEmployee(ctx context.Context, hrEmail string) ([]dto.EmployeeAssignmentSummary, bool, error) {
	key := aggregationCacheKey(hrEmail)

	var cached []dto.EmployeeAssignmentSummary
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	assignments, err := s.repo.ListAllForHR(ctx, hrEmail)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	summaries := AggregateAssignments(assignments)
	if err := s.cache.Set(ctx, key, summaries, s.aggTTL); err != nil {
		s.logger.Warn("failed to cache aggregation", zap.String("hr_email", hrEmail), zap.Error(err))
	}
	return summaries, false, nil
}

// Export renders the HR's assignment list as CSV or PDF.
func (s *AssignmentService) Export(ctx context.Context, hrEmail string, format export.Format) ([]byte, error) {
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	assignments, err := s.repo.ListAllForHR(ctx, hrEmail)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	headers := []string{"Product", "Type", "Employee", "Assigned", "Status"}
	rows := make([]map[string]string, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, map[string]string{
			"Product":  a.ProductName,
			"Type":     a.ProductType,
			"Employee": a.EmployeeEmail,
			"Assigned": a.AssignedDate.Format("2006-01-02"),
			"Status":   string(a.Status),
		})
	}
	payload, err := export.Render(export.Dataset{Title: "Assigned Assets", Headers: headers, Rows: rows}, format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return payload, nil
}

// AggregateAssignments groups assignments per employee and counts totals.
// Pure function over the snapshot; ordering is deterministic by email.
func AggregateAssignments(assignments []models.Assignment) []dto.EmployeeAssignmentSummary {
	grouped := make(map[string]*dto.EmployeeAssignmentSummary)
	for _, a := range assignments {
		summary, ok := grouped[a.EmployeeEmail]
		if !ok {
			summary = &dto.EmployeeAssignmentSummary{
				EmployeeEmail: a.EmployeeEmail,
				EmployeeName:  a.EmployeeName,
			}
			grouped[a.EmployeeEmail] = summary
		}
		switch a.Status {
		case models.AssignmentStatusAssigned:
			summary.AssignedCount++
		case models.AssignmentStatusReturned:
			summary.ReturnedCount++
		}
		summary.TotalCount++
	}

	summaries := make([]dto.EmployeeAssignmentSummary, 0, len(grouped))
	for _, summary := range grouped {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].EmployeeEmail < summaries[j].EmployeeEmail
	})
	return summaries
}

// ExportFilename builds a deterministic download name for the report.
func ExportFilename(format export.Format) string {
	return fmt.Sprintf("assigned-assets-%s.%s", time.Now().UTC().Format("20060102"), format)
}
