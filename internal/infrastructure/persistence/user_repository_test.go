package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/primtakip/backend/internal/domain/identity"
	"github.com/primtakip/backend/internal/domain/shared"
)

// newMockUserRepository creates a GormUserRepository with a mocked SQL connection
func newMockUserRepository(t *testing.T) (*GormUserRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormUserRepository(gormDB), mock, mockDB
}

func userRows(id uuid.UUID, username string, role identity.UserRole) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version",
		"username", "email", "full_name", "password_hash", "role", "status",
		"perm_can_cancel_sales", "perm_can_mark_commission_paid",
		"last_login_at", "failed_attempts", "locked_until",
	}).AddRow(
		id, now, now, 1,
		username, "", "Test Kullanıcı", "$2a$12$hash", role, identity.UserStatusActive,
		false, false,
		nil, 0, nil,
	)
}

func TestGormUserRepository_FindByUsername(t *testing.T) {
	t.Run("finds existing user", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
			WithArgs("ahmet", 1).
			WillReturnRows(userRows(userID, "ahmet", identity.RoleUser))

		user, err := repo.FindByUsername(context.Background(), "ahmet")

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "ahmet", user.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil when not found", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
			WithArgs("yok", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		user, err := repo.FindByUsername(context.Background(), "yok")

		require.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_FindByID(t *testing.T) {
	t.Run("finds existing user", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
			WithArgs(userID, 1).
			WillReturnRows(userRows(userID, "ahmet", identity.RoleAdmin))

		user, err := repo.FindByID(context.Background(), userID)

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, identity.RoleAdmin, user.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_FindAll(t *testing.T) {
	t.Run("applies role filter and pagination", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE role = \$1 ORDER BY created_at DESC LIMIT \$2`).
			WithArgs("admin", 20).
			WillReturnRows(userRows(uuid.New(), "yonetici", identity.RoleAdmin))

		filter := shared.DefaultFilter()
		filter.Filters["role"] = "admin"

		users, err := repo.FindAll(context.Background(), filter)

		require.NoError(t, err)
		assert.Len(t, users, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies case-insensitive search", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE \(username ILIKE \$1 OR full_name ILIKE \$2\) ORDER BY created_at DESC LIMIT \$3`).
			WithArgs("%ahm%", "%ahm%", 20).
			WillReturnRows(userRows(uuid.New(), "ahmet", identity.RoleUser))

		filter := shared.DefaultFilter()
		filter.Search = "ahm"

		users, err := repo.FindAll(context.Background(), filter)

		require.NoError(t, err)
		assert.Len(t, users, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_Count(t *testing.T) {
	repo, mock, mockDB := newMockUserRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE status = \$1`).
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	filter := shared.DefaultFilter()
	filter.Filters["status"] = "active"

	count, err := repo.Count(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_CountAll(t *testing.T) {
	repo, mock, mockDB := newMockUserRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	count, err := repo.CountAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
