package models

import "time"

// AssignmentStatus tracks whether the employee still holds the asset.
type AssignmentStatus string

const (
	AssignmentStatusAssigned AssignmentStatus = "Assigned"
	AssignmentStatusReturned AssignmentStatus = "Returned"
)

// Assignment records an asset currently held by an employee. It is created
// only as a side effect of an approved request.
type Assignment struct {
	ID            string           `db:"id" json:"id"`
	AssetID       string           `db:"asset_id" json:"asset_id"`
	ProductName   string           `db:"product_name" json:"product_name"`
	ProductType   string           `db:"product_type" json:"product_type"`
	ImageURL      string           `db:"image_url" json:"image_url"`
	EmployeeEmail string           `db:"employee_email" json:"employee_email"`
	EmployeeName  string           `db:"employee_name" json:"employee_name"`
	HREmail       string           `db:"hr_email" json:"hr_email"`
	CompanyName   string           `db:"company_name" json:"company_name"`
	AssignedDate  time.Time        `db:"assigned_date" json:"assigned_date"`
	ReturnDate    *time.Time       `db:"return_date" json:"return_date,omitempty"`
	Status        AssignmentStatus `db:"status" json:"status"`
}

// AssignmentFilter captures filtering criteria for listing assignments.
type AssignmentFilter struct {
	HREmail       string
	EmployeeEmail string
	Status        AssignmentStatus
	Search        string
	Page          int
	PageSize      int
}
