package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
)

// UserRepository manages persistence for user profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, full_name, role, company_name, company_logo, photo_url, date_of_birth, position, package_limit, created_at, updated_at`

// Upsert inserts the user or refreshes the profile when the email is already
// registered. Sign-up sync from the identity provider hits this on every
// login, so it has to be idempotent.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	const query = `INSERT INTO users (id, email, full_name, role, company_name, company_logo, photo_url, date_of_birth, position, package_limit, created_at, updated_at)
        VALUES (:id, :email, :full_name, :role, :company_name, :company_logo, :photo_url, :date_of_birth, :position, :package_limit, :created_at, :updated_at)
        ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name, photo_url = EXCLUDED.photo_url, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// FindByEmail returns a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, strings.ToLower(email)); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users matching the provided filters.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	base := "FROM users u"
	var conditions []string
	var args []interface{}

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Company != "" {
		conditions = append(conditions, fmt.Sprintf("u.company_name = $%d", len(args)+1))
		args = append(args, filter.Company)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.full_name) LIKE $%d OR LOWER(u.email) LIKE $%d)", len(args)+1, len(args)+1))
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

	query := fmt.Sprintf(`SELECT u.id, u.email, u.full_name, u.role, u.company_name, u.company_logo, u.photo_url,
        u.date_of_birth, u.position, u.package_limit, u.created_at, u.updated_at
        %s ORDER BY u.created_at DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}

// ListCompanies returns the distinct companies owned by HR users.
func (r *UserRepository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	const query = `SELECT DISTINCT ON (company_name) company_name, company_logo, email AS hr_email
        FROM users WHERE role = $1 AND company_name <> '' ORDER BY company_name`
	var companies []models.Company
	if err := r.db.SelectContext(ctx, &companies, query, models.RoleHR); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

// ListByCompany returns the employees affiliated with a company.
func (r *UserRepository) ListByCompany(ctx context.Context, company string) ([]models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE company_name = $1 AND role = $2 ORDER BY full_name`, userColumns)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, company, models.RoleEmployee); err != nil {
		return nil, fmt.Errorf("list company employees: %w", err)
	}
	return users, nil
}

// UpdatePackageLimit raises the member limit after a paid package purchase.
func (r *UserRepository) UpdatePackageLimit(ctx context.Context, email string, limit int) error {
	const query = `UPDATE users SET package_limit = $2, updated_at = $3 WHERE email = $1`
	if _, err := r.db.ExecContext(ctx, query, strings.ToLower(email), limit, time.Now().UTC()); err != nil {
		return fmt.Errorf("update package limit: %w", err)
	}
	return nil
}
