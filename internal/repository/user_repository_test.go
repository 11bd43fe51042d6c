package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
)

func newUserRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestUserRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO users (.+) ON CONFLICT \(email\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &models.User{Email: "hr@corp.com", FullName: "HR One", Role: models.RoleHR, PackageLimit: 5}
	require.NoError(t, repo.Upsert(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailLowercases(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "full_name", "role", "company_name", "company_logo",
		"photo_url", "date_of_birth", "position", "package_limit", "created_at", "updated_at"}).
		AddRow("u1", "hr@corp.com", "HR One", string(models.RoleHR), "Corp", "", "", nil, "", 5, time.Now(), time.Now())

	mock.ExpectQuery(`FROM users WHERE email =`).
		WithArgs("hr@corp.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "HR@Corp.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleHR, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListCompanies(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"company_name", "company_logo", "hr_email"}).
		AddRow("Corp", "http://logo", "hr@corp.com").
		AddRow("Initech", "", "hr@initech.com")

	mock.ExpectQuery(`SELECT DISTINCT ON \(company_name\)`).
		WithArgs(string(models.RoleHR)).
		WillReturnRows(rows)

	companies, err := repo.ListCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, "Corp", companies[0].CompanyName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdatePackageLimit(t *testing.T) {
	db, mock, cleanup := newUserRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE users SET package_limit =`).
		WithArgs("hr@corp.com", 10, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePackageLimit(context.Background(), "HR@corp.com", 10))
	assert.NoError(t, mock.ExpectationsWereMet())
}
