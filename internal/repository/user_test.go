package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"yatube/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		username      string
		mockBehavior  func()
		expectedUser  *models.User
		expectedError bool
	}{
		{
			name:     "Success",
			username: "leo",
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email"}).
					AddRow(1, "leo", "leo@example.com")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("leo", 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: 1, Username: "leo", Email: "leo@example.com"},
		},
		{
			name:     "Missing user is not an error",
			username: "ghost",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("ghost", 1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
		},
		{
			name:     "DB Error",
			username: "leo",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("leo", 1).
					WillReturnError(errors.New("connection reset"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByUsername(ctx, tt.username)
			if tt.expectedError {
				assert.Error(t, err)
				assert.True(t, models.HasCode(err, models.CodeInternal))
			} else {
				assert.NoError(t, err)
				if tt.expectedUser == nil {
					assert.Nil(t, user)
				} else {
					require.NotNil(t, user)
					assert.Equal(t, tt.expectedUser.Username, user.Username)
					assert.Equal(t, tt.expectedUser.Email, user.Email)
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	leo := createUser(t, db, "leo")

	got, err := repo.GetByID(ctx, leo.ID)
	require.NoError(t, err)
	assert.Equal(t, "leo", got.Username)

	_, err = repo.GetByID(ctx, 9999)
	assert.True(t, models.IsNotFound(err))
}

func TestUserRepository_CreateWithProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "leo", Email: "leo@example.com", Password: "hash"}
	profile := &models.Profile{Bio: "hi"}
	require.NoError(t, repo.CreateWithProfile(ctx, user, profile))
	assert.NotZero(t, user.ID)
	assert.Equal(t, user.ID, profile.UserID)

	stored, err := repo.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "hi", stored.Bio)

	t.Run("duplicate username leaves no partial rows", func(t *testing.T) {
		dup := &models.User{Username: "leo", Email: "other@example.com", Password: "hash"}
		err := repo.CreateWithProfile(ctx, dup, &models.Profile{})
		assert.True(t, models.IsValidation(err))

		var users, profiles int64
		db.Model(&models.User{}).Count(&users)
		db.Model(&models.Profile{}).Count(&profiles)
		assert.Equal(t, int64(1), users)
		assert.Equal(t, int64(1), profiles)
	})
}

func TestUserRepository_SaveWithProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "leo")
	profile, err := repo.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)

	user.FirstName = "Leo"
	user.LastName = "Tolstoy"
	user.Email = "count@example.com"
	user.Username = "renamed"
	profile.Location = "Yasnaya Polyana"
	require.NoError(t, repo.SaveWithProfile(ctx, user, profile))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Leo", got.FirstName)
	assert.Equal(t, "count@example.com", got.Email)
	// Username is not an editable field.
	assert.Equal(t, "leo", got.Username)

	stored, err := repo.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yasnaya Polyana", stored.Location)
}

func TestUserRepository_SaveWithProfile_InsertsMissingProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "old", Email: "old@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	missing, err := repo.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.Nil(t, missing)

	profile := &models.Profile{UserID: user.ID, Bio: "Predates profiles"}
	require.NoError(t, repo.SaveWithProfile(ctx, user, profile))
	assert.NotZero(t, profile.ID)

	stored, err := repo.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Predates profiles", stored.Bio)
}

func TestUserRepository_GetProfile_Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	profile, err := repo.GetProfile(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, profile)
}
