package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/dto"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
)

// Sentinel errors for the approval workflow. Services translate these into
// the public error taxonomy.
var (
	ErrRequestProcessed      = errors.New("request already processed")
	ErrAssetMissing          = errors.New("referenced asset no longer exists")
	ErrInsufficientQuantity  = errors.New("asset quantity exhausted")
	ErrAssignmentNotAssigned = errors.New("assignment already returned")
)

// RequestRepository manages persistence for asset requests, including the
// transactional approval path that touches assets and assignments.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs a RequestRepository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestColumns = `id, asset_id, product_name, product_type, image_url, requester_email, requester_name,
        hr_email, company_name, note, status, request_date, approval_date, processed_by`

// Create persists a new pending request.
func (r *RequestRepository) Create(ctx context.Context, request *models.AssetRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.RequestDate.IsZero() {
		request.RequestDate = time.Now().UTC()
	}
	if request.Status == "" {
		request.Status = models.RequestStatusPending
	}
	const query = `INSERT INTO asset_requests (id, asset_id, product_name, product_type, image_url, requester_email, requester_name, hr_email, company_name, note, status, request_date)
        VALUES (:id, :asset_id, :product_name, :product_type, :image_url, :requester_email, :requester_name, :hr_email, :company_name, :note, :status, :request_date)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create asset request: %w", err)
	}
	return nil
}

// FindByID returns a request by its ID.
func (r *RequestRepository) FindByID(ctx context.Context, id string) (*models.AssetRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM asset_requests WHERE id = $1`, requestColumns)
	var request models.AssetRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns requests matching the provided filters.
func (r *RequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]models.AssetRequest, int, error) {
	base := "FROM asset_requests r"
	var conditions []string
	var args []interface{}

	if filter.HREmail != "" {
		conditions = append(conditions, fmt.Sprintf("r.hr_email = $%d", len(args)+1))
		args = append(args, filter.HREmail)
	}
	if filter.RequesterEmail != "" {
		conditions = append(conditions, fmt.Sprintf("r.requester_email = $%d", len(args)+1))
		args = append(args, filter.RequesterEmail)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(r.product_name) LIKE $%d OR LOWER(r.requester_email) LIKE $%d)", len(args)+1, len(args)+1))
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

	query := fmt.Sprintf(`SELECT r.id, r.asset_id, r.product_name, r.product_type, r.image_url, r.requester_email, r.requester_name,
        r.hr_email, r.company_name, r.note, r.status, r.request_date, r.approval_date, r.processed_by
        %s ORDER BY r.request_date DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var requests []models.AssetRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list asset requests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count asset requests: %w", err)
	}
	return requests, total, nil
}

// Approve runs the full approval as one transaction: lock the request, verify
// it is still pending, decrement the asset conditionally, resolve the request
// and insert the assignment. The conditional decrement (quantity >= 1) plus
// the row lock closes the race between concurrent approvals against the same
// asset; quantity can never go negative.
func (r *RequestRepository) Approve(ctx context.Context, id, processor string) (assignment *models.Assignment, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin approval: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var request models.AssetRequest
	lockQuery := fmt.Sprintf(`SELECT %s FROM asset_requests WHERE id = $1 FOR UPDATE`, requestColumns)
	if err = tx.GetContext(ctx, &request, lockQuery, id); err != nil {
		return nil, err
	}
	if request.Status != models.RequestStatusPending {
		err = ErrRequestProcessed
		return nil, err
	}

	now := time.Now().UTC()

	const decrementQuery = `UPDATE assets SET quantity = quantity - 1, updated_at = $2 WHERE id = $1 AND quantity >= 1`
	res, err := tx.ExecContext(ctx, decrementQuery, request.AssetID, now)
	if err != nil {
		return nil, fmt.Errorf("decrement asset quantity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("decrement asset rows: %w", err)
	}
	if affected == 0 {
		var exists int
		if err = tx.GetContext(ctx, &exists, `SELECT 1 FROM assets WHERE id = $1`, request.AssetID); err != nil {
			if err == sql.ErrNoRows {
				err = ErrAssetMissing
			}
			return nil, err
		}
		err = ErrInsufficientQuantity
		return nil, err
	}

	const resolveQuery = `UPDATE asset_requests SET status = $2, approval_date = $3, processed_by = $4 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, resolveQuery, id, models.RequestStatusApproved, now, processor); err != nil {
		return nil, fmt.Errorf("resolve request: %w", err)
	}

	assignment = &models.Assignment{
		ID:            uuid.NewString(),
		AssetID:       request.AssetID,
		ProductName:   request.ProductName,
		ProductType:   request.ProductType,
		ImageURL:      request.ImageURL,
		EmployeeEmail: request.RequesterEmail,
		EmployeeName:  request.RequesterName,
		HREmail:       request.HREmail,
		CompanyName:   request.CompanyName,
		AssignedDate:  now,
		Status:        models.AssignmentStatusAssigned,
	}
	const assignQuery = `INSERT INTO assignments (id, asset_id, product_name, product_type, image_url, employee_email, employee_name, hr_email, company_name, assigned_date, status)
        VALUES (:id, :asset_id, :product_name, :product_type, :image_url, :employee_email, :employee_name, :hr_email, :company_name, :assigned_date, :status)`
	if _, err = tx.NamedExecContext(ctx, assignQuery, assignment); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit approval: %w", err)
	}
	return assignment, nil
}

// Reject marks a pending request rejected. Same locking discipline as Approve
// so a request resolves at most once; no asset or assignment rows change.
func (r *RequestRepository) Reject(ctx context.Context, id, processor string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rejection: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var status models.RequestStatus
	if err = tx.GetContext(ctx, &status, `SELECT status FROM asset_requests WHERE id = $1 FOR UPDATE`, id); err != nil {
		return err
	}
	if status != models.RequestStatusPending {
		err = ErrRequestProcessed
		return err
	}

	const resolveQuery = `UPDATE asset_requests SET status = $2, approval_date = $3, processed_by = $4 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, resolveQuery, id, models.RequestStatusRejected, time.Now().UTC(), processor); err != nil {
		return fmt.Errorf("resolve request: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit rejection: %w", err)
	}
	return nil
}

// EmployeeHistory returns the employee's resolved requests enriched with live
// asset data. Deleted assets surface as null live fields, not as errors.
func (r *RequestRepository) EmployeeHistory(ctx context.Context, email string) ([]dto.AssetHistoryItem, error) {
	const query = `SELECT r.id AS request_id, r.asset_id, r.product_name, r.product_type, r.status, r.request_date, r.approval_date,
        a.product_name AS live_product_name, a.image_url AS live_image_url
        FROM asset_requests r
        LEFT JOIN assets a ON a.id = r.asset_id
        WHERE r.requester_email = $1 AND r.status IN ($2, $3)
        ORDER BY r.request_date DESC`
	var items []dto.AssetHistoryItem
	if err := r.db.SelectContext(ctx, &items, query, email, models.RequestStatusApproved, models.RequestStatusRejected); err != nil {
		return nil, fmt.Errorf("employee asset history: %w", err)
	}
	return items, nil
}
