package dto

import (
	"time"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
)

// AssetHistoryItem joins a resolved request with live asset data for display.
// The live fields are null when the referenced asset was deleted.
type AssetHistoryItem struct {
	RequestID       string               `db:"request_id" json:"request_id"`
	AssetID         string               `db:"asset_id" json:"asset_id"`
	ProductName     string               `db:"product_name" json:"product_name"`
	ProductType     string               `db:"product_type" json:"product_type"`
	Status          models.RequestStatus `db:"status" json:"status"`
	RequestDate     time.Time            `db:"request_date" json:"request_date"`
	ApprovalDate    *time.Time           `db:"approval_date" json:"approval_date,omitempty"`
	LiveProductName *string              `db:"live_product_name" json:"live_product_name,omitempty"`
	LiveImageURL    *string              `db:"live_image_url" json:"live_image_url,omitempty"`
}

// EmployeeAssignmentSummary groups an HR's assignments per employee.
type EmployeeAssignmentSummary struct {
	EmployeeEmail string `json:"employee_email"`
	EmployeeName  string `json:"employee_name"`
	AssignedCount int    `json:"assigned_count"`
	ReturnedCount int    `json:"returned_count"`
	TotalCount    int    `json:"total_count"`
}

// CheckoutSessionResponse returns the provider redirect for a package purchase.
type CheckoutSessionResponse struct {
	PaymentID   string `json:"payment_id"`
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}
