package models

import "time"

// RequestStatus tracks the lifecycle of an asset request.
// Pending transitions exactly once to Approved or Rejected.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "Pending"
	RequestStatusApproved RequestStatus = "Approved"
	RequestStatusRejected RequestStatus = "Rejected"
)

// AssetRequest is an employee's ask to be assigned a specific asset.
// The asset reference is an opaque id; product fields are denormalized
// snapshots kept in sync by asset edits.
type AssetRequest struct {
	ID             string        `db:"id" json:"id"`
	AssetID        string        `db:"asset_id" json:"asset_id"`
	ProductName    string        `db:"product_name" json:"product_name"`
	ProductType    string        `db:"product_type" json:"product_type"`
	ImageURL       string        `db:"image_url" json:"image_url"`
	RequesterEmail string        `db:"requester_email" json:"requester_email"`
	RequesterName  string        `db:"requester_name" json:"requester_name"`
	HREmail        string        `db:"hr_email" json:"hr_email"`
	CompanyName    string        `db:"company_name" json:"company_name"`
	Note           string        `db:"note" json:"note"`
	Status         RequestStatus `db:"status" json:"status"`
	RequestDate    time.Time     `db:"request_date" json:"request_date"`
	ApprovalDate   *time.Time    `db:"approval_date" json:"approval_date,omitempty"`
	ProcessedBy    *string       `db:"processed_by" json:"processed_by,omitempty"`
}

// RequestFilter captures filtering criteria for listing asset requests.
type RequestFilter struct {
	HREmail        string
	RequesterEmail string
	Status         RequestStatus
	Search         string
	Page           int
	PageSize       int
}
