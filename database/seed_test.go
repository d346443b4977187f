package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"agora/common"
	"agora/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := common.ConnectDb(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { common.CloseDb(db) })
	return db
}

func TestPrepare_SeedsFixtures(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Prepare(db, bcrypt.MinCost))

	var users, forums, posts, comments int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Forum{}).Count(&forums)
	db.Model(&models.Post{}).Count(&posts)
	db.Model(&models.Comment{}).Count(&comments)

	assert.Equal(t, int64(4), users)
	assert.Equal(t, int64(9), forums)
	assert.Equal(t, int64(SeedPostCount), posts)
	assert.Equal(t, int64(len(seedComments)), comments)
}

func TestPrepare_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Prepare(db, bcrypt.MinCost))
	require.NoError(t, Prepare(db, bcrypt.MinCost))

	var forums int64
	db.Model(&models.Forum{}).Count(&forums)
	assert.Equal(t, int64(9), forums)
}

func TestSeed_PasswordsAreHashed(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Prepare(db, bcrypt.MinCost))

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)

	assert.Equal(t, FixtureID("admin"), admin.ID)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NotEqual(t, "admin", admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin")))
}

func TestSeed_PostNumbersAreDense(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Prepare(db, bcrypt.MinCost))

	var numbers []int
	db.Model(&models.Post{}).Where("forum_id = ?", FixtureID("tech-web")).Order("number").Pluck("number", &numbers)

	require.Len(t, numbers, SeedPostCount)
	for i, n := range numbers {
		assert.Equal(t, i+1, n)
	}

	var later models.Post
	require.NoError(t, db.Where("number = ?", 31).First(&later).Error)
	assert.Equal(t, "Building a REST API with Go - Part 2", later.Title)
	assert.Equal(t, []string{"go", "api", "backend", "rest"}, later.Tags)
}

func TestSeed_ForumsPerCategory(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Prepare(db, bcrypt.MinCost))

	var forums []models.Forum
	require.NoError(t, db.Find(&forums).Error)

	groups := models.GroupByCategory(forums)
	for _, c := range models.Categories {
		assert.Len(t, groups[c], 3, "category %s", c)
	}
}

func TestFixtureID_Stable(t *testing.T) {
	assert.Equal(t, FixtureID("admin"), FixtureID("admin"))
	assert.NotEqual(t, FixtureID("admin"), FixtureID("bob"))
	assert.Len(t, FixtureID("admin"), 36)
}
