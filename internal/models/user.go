package models

import "time"

// UserRole represents the available roles.
type UserRole string

const (
	RoleHR       UserRole = "hr"
	RoleEmployee UserRole = "employee"
	RoleAdmin    UserRole = "admin"
)

// User represents an employee or HR profile synced from the identity provider.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	CompanyName  string     `db:"company_name" json:"company_name"`
	CompanyLogo  string     `db:"company_logo" json:"company_logo"`
	PhotoURL     string     `db:"photo_url" json:"photo_url"`
	DateOfBirth  *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Position     string     `db:"position" json:"position"`
	PackageLimit int        `db:"package_limit" json:"package_limit"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Company  string
	Search   string
	Page     int
	PageSize int
}

// Company is a distinct HR-owned company projection.
type Company struct {
	CompanyName string `db:"company_name" json:"company_name"`
	CompanyLogo string `db:"company_logo" json:"company_logo"`
	HREmail     string `db:"hr_email" json:"hr_email"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
