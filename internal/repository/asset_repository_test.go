package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
)

func newAssetRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAssetRepositoryList(t *testing.T) {
	db, mock, cleanup := newAssetRepoMock(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	rows := sqlmock.NewRows([]string{"id", "product_name", "product_type", "quantity", "hr_email", "company_name",
		"image_url", "returnable", "description", "created_at", "updated_at"}).
		AddRow("a1", "Laptop", "returnable", 4, "hr@corp.com", "Corp", "", true, "", time.Now(), time.Now())
	mock.ExpectQuery(`FROM assets a WHERE a.hr_email = (.+) ORDER BY a.created_at DESC LIMIT 20 OFFSET 0`).
		WithArgs("hr@corp.com").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM assets a WHERE a.hr_email = $1")).
		WithArgs("hr@corp.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	assets, total, err := repo.List(context.Background(), models.AssetFilter{HREmail: "hr@corp.com"})
	require.NoError(t, err)
	assert.Len(t, assets, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAssetRepoMock(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	mock.ExpectExec(`INSERT INTO assets`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	asset := &models.Asset{ProductName: "Laptop", ProductType: "returnable", Quantity: 3, HREmail: "hr@corp.com"}
	require.NoError(t, repo.Create(context.Background(), asset))
	assert.NotEmpty(t, asset.ID)
	assert.False(t, asset.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetRepositoryUpdatePropagates(t *testing.T) {
	db, mock, cleanup := newAssetRepoMock(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE assets SET product_name =`).
		WithArgs("a1", "Laptop Pro", "returnable", 5, "http://img", true, "desc", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE asset_requests SET product_name =`).
		WithArgs("a1", "Laptop Pro", "returnable", "http://img").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE assignments SET product_name =`).
		WithArgs("a1", "Laptop Pro", "returnable", "http://img").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	patch := models.AssetPatch{ProductName: "Laptop Pro", ProductType: "returnable", Quantity: 5,
		ImageURL: "http://img", Returnable: true, Description: "desc"}
	require.NoError(t, repo.Update(context.Background(), "a1", patch))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetRepositoryUpdateNotFound(t *testing.T) {
	db, mock, cleanup := newAssetRepoMock(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE assets SET product_name =`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), "missing", models.AssetPatch{ProductName: "X", ProductType: "y"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetRepositoryDeleteCascades(t *testing.T) {
	db, mock, cleanup := newAssetRepoMock(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM assets WHERE id =`).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM asset_requests WHERE asset_id =`).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM assignments WHERE asset_id =`).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "a1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newAssetRepoMock(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM assets WHERE id =`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
