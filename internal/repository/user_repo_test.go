package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/staffroom/logbook-api/internal/models"
)

func newUserTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestUserRepositoryCreateAndLookup(t *testing.T) {
	repo := NewUserRepository(newUserTestDB(t, "user_lookup"))
	ctx := context.Background()

	user := models.User{
		ID:    "user-1",
		Name:  "Asha Verma",
		Role:  models.RoleTeacher,
		Email: "Asha.Verma@school.example",
	}
	require.NoError(t, repo.Create(ctx, user))

	byID, err := repo.GetByID(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, user, byID)

	// Email lookup ignores case.
	byEmail, err := repo.GetByEmail(ctx, "asha.verma@SCHOOL.example")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "nobody@school.example")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryUpdate(t *testing.T) {
	repo := NewUserRepository(newUserTestDB(t, "user_update"))
	ctx := context.Background()

	user := models.User{ID: "user-1", Name: "Asha", Role: models.RoleTeacher, Email: "asha@school.example"}
	require.NoError(t, repo.Create(ctx, user))

	user.Bio = "Mathematics, 12 years."
	user.Experience = 12
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.GetByID(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "Mathematics, 12 years.", got.Bio)
	require.Equal(t, 12, got.Experience)

	missing := models.User{ID: "ghost", Name: "X", Role: models.RoleOther, Email: "x@school.example"}
	require.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
}
