package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
)

func newRequestRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func pendingRequestRows(assetID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "asset_id", "product_name", "product_type", "image_url", "requester_email", "requester_name",
		"hr_email", "company_name", "note", "status", "request_date", "approval_date", "processed_by",
	}).AddRow("req-1", assetID, "Laptop", "returnable", "", "emp@corp.com", "Employee One",
		"hr@corp.com", "Corp", "", string(models.RequestStatusPending), time.Now(), nil, nil)
}

func TestRequestRepositoryApprove(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM asset_requests WHERE id = (.+) FOR UPDATE`).
		WithArgs("req-1").
		WillReturnRows(pendingRequestRows("asset-1"))
	mock.ExpectExec(`UPDATE assets SET quantity = quantity - 1`).
		WithArgs("asset-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE asset_requests SET status =`).
		WithArgs("req-1", string(models.RequestStatusApproved), sqlmock.AnyArg(), "hr@corp.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO assignments`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assignment, err := repo.Approve(context.Background(), "req-1", "hr@corp.com")
	require.NoError(t, err)
	assert.Equal(t, "asset-1", assignment.AssetID)
	assert.Equal(t, "emp@corp.com", assignment.EmployeeEmail)
	assert.Equal(t, "hr@corp.com", assignment.HREmail)
	assert.Equal(t, models.AssignmentStatusAssigned, assignment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryApproveAlreadyProcessed(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "asset_id", "product_name", "product_type", "image_url", "requester_email", "requester_name",
		"hr_email", "company_name", "note", "status", "request_date", "approval_date", "processed_by",
	}).AddRow("req-1", "asset-1", "Laptop", "", "", "emp@corp.com", "Employee One",
		"hr@corp.com", "Corp", "", string(models.RequestStatusApproved), time.Now(), time.Now(), "hr@corp.com")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM asset_requests WHERE id = (.+) FOR UPDATE`).
		WithArgs("req-1").
		WillReturnRows(rows)
	mock.ExpectRollback()

	_, err := repo.Approve(context.Background(), "req-1", "hr@corp.com")
	assert.ErrorIs(t, err, ErrRequestProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryApproveInsufficientQuantity(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM asset_requests WHERE id = (.+) FOR UPDATE`).
		WithArgs("req-1").
		WillReturnRows(pendingRequestRows("asset-1"))
	mock.ExpectExec(`UPDATE assets SET quantity = quantity - 1`).
		WithArgs("asset-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM assets WHERE id =`).
		WithArgs("asset-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectRollback()

	_, err := repo.Approve(context.Background(), "req-1", "hr@corp.com")
	assert.ErrorIs(t, err, ErrInsufficientQuantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryApproveAssetMissing(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM asset_requests WHERE id = (.+) FOR UPDATE`).
		WithArgs("req-1").
		WillReturnRows(pendingRequestRows("asset-gone"))
	mock.ExpectExec(`UPDATE assets SET quantity = quantity - 1`).
		WithArgs("asset-gone", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM assets WHERE id =`).
		WithArgs("asset-gone").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Approve(context.Background(), "req-1", "hr@corp.com")
	assert.ErrorIs(t, err, ErrAssetMissing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryReject(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM asset_requests WHERE id = (.+) FOR UPDATE`).
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(string(models.RequestStatusPending)))
	mock.ExpectExec(`UPDATE asset_requests SET status =`).
		WithArgs("req-1", string(models.RequestStatusRejected), sqlmock.AnyArg(), "hr@corp.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Reject(context.Background(), "req-1", "hr@corp.com"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryRejectAlreadyProcessed(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM asset_requests WHERE id = (.+) FOR UPDATE`).
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(string(models.RequestStatusRejected)))
	mock.ExpectRollback()

	err := repo.Reject(context.Background(), "req-1", "hr@corp.com")
	assert.ErrorIs(t, err, ErrRequestProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryEmployeeHistory(t *testing.T) {
	db, mock, cleanup := newRequestRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	rows := sqlmock.NewRows([]string{
		"request_id", "asset_id", "product_name", "product_type", "status", "request_date", "approval_date",
		"live_product_name", "live_image_url",
	}).
		AddRow("req-1", "asset-1", "Laptop", "returnable", string(models.RequestStatusApproved), time.Now(), time.Now(), "Laptop Pro", "http://img").
		AddRow("req-2", "asset-gone", "Monitor", "returnable", string(models.RequestStatusRejected), time.Now(), time.Now(), nil, nil)

	mock.ExpectQuery(`LEFT JOIN assets a ON a.id = r.asset_id`).
		WithArgs("emp@corp.com", string(models.RequestStatusApproved), string(models.RequestStatusRejected)).
		WillReturnRows(rows)

	items, err := repo.EmployeeHistory(context.Background(), "emp@corp.com")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].LiveProductName)
	assert.Equal(t, "Laptop Pro", *items[0].LiveProductName)
	assert.Nil(t, items[1].LiveProductName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
