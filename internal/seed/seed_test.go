package seed

import (
	"context"
	"testing"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Tag{},
		&models.PostTag{},
		&models.Comment{},
	)
	require.NoError(t, err)
	return db
}

func TestFactoryCreateUser(t *testing.T) {
	db := setupSeedDB(t)
	f := NewFactory(db)

	user, err := f.CreateUser()
	require.NoError(t, err)
	assert.NotEmpty(t, user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.True(t, user.IsActive)

	custom, err := f.CreateUser(func(u *models.User) {
		u.Username = "fixed_name"
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed_name", custom.Username)
}

func TestFactoryCreatePostDerivesFields(t *testing.T) {
	db := setupSeedDB(t)
	f := NewFactory(db)

	user, err := f.CreateUser()
	require.NoError(t, err)

	post, err := f.CreatePost(user)
	require.NoError(t, err)
	assert.NotEmpty(t, post.Slug)
	require.NotNil(t, post.Excerpt)
	assert.Equal(t, models.PostStatusDraft, post.Status)
}

func TestSeedPopulatesAllTables(t *testing.T) {
	db := setupSeedDB(t)

	opts := Options{
		Users:           3,
		PostsPerUser:    2,
		CommentsPerPost: 2,
		Tags:            4,
		Clean:           true,
	}
	require.NoError(t, Seed(db, opts))

	var userCount, postCount, tagCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)

	assert.Equal(t, int64(3), userCount)
	assert.Equal(t, int64(4), tagCount)
	assert.GreaterOrEqual(t, postCount, int64(3))
	assert.LessOrEqual(t, postCount, int64(6))

	// Slugs remained unique across seeded rows.
	var distinctSlugs int64
	require.NoError(t, db.Model(&models.Post{}).Distinct("slug").Count(&distinctSlugs).Error)
	assert.Equal(t, postCount, distinctSlugs)
}

func TestSeedCleanWipesPreviousData(t *testing.T) {
	db := setupSeedDB(t)

	f := NewFactory(db)
	stale, err := f.CreateUser(func(u *models.User) {
		u.Email = "stale@example.com"
	})
	require.NoError(t, err)

	opts := Options{Users: 2, PostsPerUser: 1, CommentsPerPost: 0, Tags: 1, Clean: true}
	require.NoError(t, Seed(db, opts))

	gone, err := repository.NewUserRepository(db).GetByID(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
