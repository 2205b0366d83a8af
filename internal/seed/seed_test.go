package seed

import (
	"context"
	"testing"

	"yatube/internal/cache"
	"yatube/internal/database"
	"yatube/internal/models"
	"yatube/internal/validation"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestGroups_Idempotent(t *testing.T) {
	t.Parallel()
	db := openDB(t)

	first, err := Groups(context.Background(), db)
	require.NoError(t, err)
	second, err := Groups(context.Background(), db)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Group{}).Count(&count).Error)
	assert.Equal(t, int64(len(BuiltInGroups)), count)
	for i := range first {
		assert.NotZero(t, first[i].ID)
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestGroups_DropsCachedGroups(t *testing.T) {
	db := openDB(t)
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	require.NoError(t, mr.Set(cache.GroupKey("cats"), `{"id":1,"title":"Old title","slug":"cats"}`))
	require.NoError(t, mr.Set(cache.GroupKey("unrelated"), `{"id":9}`))

	_, err := Groups(context.Background(), db)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.GroupKey("cats")))
	assert.True(t, mr.Exists(cache.GroupKey("unrelated")))
}

func TestSeeder_Run(t *testing.T) {
	t.Parallel()
	db := openDB(t)

	res, err := NewSeeder(db, Options{SkipBcrypt: true, MaxDays: 10}).Run(5, 30)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Users)
	assert.Equal(t, 30, res.Posts)

	count := func(model interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(5), count(&models.User{}))
	assert.Equal(t, int64(5), count(&models.Profile{}))
	assert.Equal(t, int64(30), count(&models.Post{}))
	assert.Equal(t, int64(res.Comments), count(&models.Comment{}))
	assert.Equal(t, int64(res.Follows), count(&models.Follow{}))

	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).Where("user_id = author_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	for _, u := range users {
		assert.NoError(t, validation.ValidateUsername(u.Username), u.Username)
	}
}

func TestSeeder_ClearAll(t *testing.T) {
	t.Parallel()
	db := openDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true})

	_, err := s.Run(3, 5)
	require.NoError(t, err)
	require.NoError(t, s.ClearAll())

	var users, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Zero(t, users)
	assert.Zero(t, posts)
}

func TestSeeder_DryRunWritesNothing(t *testing.T) {
	t.Parallel()
	db := openDB(t)

	res, err := NewSeeder(db, Options{DryRun: true, SkipBcrypt: true}).Run(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Posts)

	var posts int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Zero(t, posts)
}

func TestUsernameFrom(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "anne_okeefe123", usernameFrom("Anne", "O'Keefe", 123))
	assert.NoError(t, validation.ValidateUsername(usernameFrom("Bartholomew-Maximilian", "Wolfeschlegelsteinhausen", 999)))
}
