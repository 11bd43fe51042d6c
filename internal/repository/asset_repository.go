package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
)

// AssetRepository manages persistence for company assets. Edits and deletes
// cascade to the denormalized request and assignment rows in one transaction
// so the three tables never drift apart.
type AssetRepository struct {
	db *sqlx.DB
}

// NewAssetRepository constructs an AssetRepository.
func NewAssetRepository(db *sqlx.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// List returns assets matching the provided filters.
func (r *AssetRepository) List(ctx context.Context, filter models.AssetFilter) ([]models.Asset, int, error) {
	base := "FROM assets a"
	var conditions []string
	var args []interface{}

	if filter.HREmail != "" {
		conditions = append(conditions, fmt.Sprintf("a.hr_email = $%d", len(args)+1))
		args = append(args, filter.HREmail)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("a.product_type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(a.product_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"product_name": "a.product_name",
		"quantity":     "a.quantity",
		"created_at":   "a.created_at",
	}
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "a.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
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

	query := fmt.Sprintf(`SELECT a.id, a.product_name, a.product_type, a.quantity, a.hr_email, a.company_name,
        a.image_url, a.returnable, a.description, a.created_at, a.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, column, order, size, offset)

	var assets []models.Asset
	if err := r.db.SelectContext(ctx, &assets, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list assets: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assets: %w", err)
	}
	return assets, total, nil
}

// FindByID fetches an asset by ID.
func (r *AssetRepository) FindByID(ctx context.Context, id string) (*models.Asset, error) {
	const query = `SELECT id, product_name, product_type, quantity, hr_email, company_name,
        image_url, returnable, description, created_at, updated_at FROM assets WHERE id = $1`
	var asset models.Asset
	if err := r.db.GetContext(ctx, &asset, query, id); err != nil {
		return nil, err
	}
	return &asset, nil
}

// Create inserts a new asset record.
func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = now
	}
	asset.UpdatedAt = now
	const query = `INSERT INTO assets (id, product_name, product_type, quantity, hr_email, company_name, image_url, returnable, description, created_at, updated_at)
        VALUES (:id, :product_name, :product_type, :quantity, :hr_email, :company_name, :image_url, :returnable, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, asset); err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}

// Update applies the patch to the asset and propagates the denormalized
// product fields to every request and assignment referencing it. The whole
// write is one transaction; sql.ErrNoRows is returned when the asset row is
// absent and nothing is committed.
func (r *AssetRepository) Update(ctx context.Context, id string, patch models.AssetPatch) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin asset update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const assetQuery = `UPDATE assets SET product_name = $2, product_type = $3, quantity = $4,
        image_url = $5, returnable = $6, description = $7, updated_at = $8 WHERE id = $1`
	res, err := tx.ExecContext(ctx, assetQuery, id, patch.ProductName, patch.ProductType,
		patch.Quantity, patch.ImageURL, patch.Returnable, patch.Description, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update asset rows: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	const requestQuery = `UPDATE asset_requests SET product_name = $2, product_type = $3, image_url = $4 WHERE asset_id = $1`
	if _, err = tx.ExecContext(ctx, requestQuery, id, patch.ProductName, patch.ProductType, patch.ImageURL); err != nil {
		return fmt.Errorf("propagate asset update to requests: %w", err)
	}

	const assignmentQuery = `UPDATE assignments SET product_name = $2, product_type = $3, image_url = $4 WHERE asset_id = $1`
	if _, err = tx.ExecContext(ctx, assignmentQuery, id, patch.ProductName, patch.ProductType, patch.ImageURL); err != nil {
		return fmt.Errorf("propagate asset update to assignments: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit asset update: %w", err)
	}
	return nil
}

// Delete removes the asset together with every request and assignment
// referencing it. All-or-nothing; sql.ErrNoRows when the asset is absent.
func (r *AssetRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin asset delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete asset rows: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM asset_requests WHERE asset_id = $1`, id); err != nil {
		return fmt.Errorf("delete asset requests: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM assignments WHERE asset_id = $1`, id); err != nil {
		return fmt.Errorf("delete asset assignments: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit asset delete: %w", err)
	}
	return nil
}
