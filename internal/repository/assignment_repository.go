package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
)

// AssignmentRepository manages persistence for asset assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `id, asset_id, product_name, product_type, image_url, employee_email, employee_name,
        hr_email, company_name, assigned_date, return_date, status`

// List returns assignments matching the provided filters.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	base := "FROM assignments s"
	var conditions []string
	var args []interface{}

	if filter.HREmail != "" {
		conditions = append(conditions, fmt.Sprintf("s.hr_email = $%d", len(args)+1))
		args = append(args, filter.HREmail)
	}
	if filter.EmployeeEmail != "" {
		conditions = append(conditions, fmt.Sprintf("s.employee_email = $%d", len(args)+1))
		args = append(args, filter.EmployeeEmail)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.product_name) LIKE $%d OR LOWER(s.employee_email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.asset_id, s.product_name, s.product_type, s.image_url, s.employee_email, s.employee_name,
        s.hr_email, s.company_name, s.assigned_date, s.return_date, s.status
        %s ORDER BY s.assigned_date DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}
	return assignments, total, nil
}

// ListAllForHR returns every assignment belonging to an HR without
// pagination, for the aggregation projection and report exports.
func (r *AssignmentRepository) ListAllForHR(ctx context.Context, hrEmail string) ([]models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE hr_email = $1 ORDER BY assigned_date DESC`, assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, hrEmail); err != nil {
		return nil, fmt.Errorf("list hr assignments: %w", err)
	}
	return assignments, nil
}

// FindByID returns an assignment by its ID.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE id = $1`, assignmentColumns)
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Return flips an assignment from Assigned to Returned, stamping the return
// date. The conditional predicate keeps a double return from overwriting the
// original return date.
func (r *AssignmentRepository) Return(ctx context.Context, id string) error {
	const query = `UPDATE assignments SET status = $2, return_date = $3 WHERE id = $1 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, id, models.AssignmentStatusReturned, time.Now().UTC(), models.AssignmentStatusAssigned)
	if err != nil {
		return fmt.Errorf("return assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("return assignment rows: %w", err)
	}
	if affected == 0 {
		var exists int
		if err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM assignments WHERE id = $1`, id); err != nil {
			if err == sql.ErrNoRows {
				return sql.ErrNoRows
			}
			return fmt.Errorf("check assignment: %w", err)
		}
		return ErrAssignmentNotAssigned
	}
	return nil
}
