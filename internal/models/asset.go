package models

import "time"

// Asset represents a company-owned item available for assignment.
type Asset struct {
	ID          string    `db:"id" json:"id"`
	ProductName string    `db:"product_name" json:"product_name"`
	ProductType string    `db:"product_type" json:"product_type"`
	Quantity    int       `db:"quantity" json:"quantity"`
	HREmail     string    `db:"hr_email" json:"hr_email"`
	CompanyName string    `db:"company_name" json:"company_name"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	Returnable  bool      `db:"returnable" json:"returnable"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AssetFilter captures filtering criteria for listing assets.
type AssetFilter struct {
	HREmail   string
	Search    string
	Type      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// AssetPatch carries the editable asset fields. Name, type and image changes
// are propagated to requests and assignments that reference the asset.
type AssetPatch struct {
	ProductName string
	ProductType string
	Quantity    int
	ImageURL    string
	Returnable  bool
	Description string
}
