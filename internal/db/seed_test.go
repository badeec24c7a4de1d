package db

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lexhelp/platform/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	return conn
}

func TestSeedCreatesDemoData(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, Seed(conn))

	var users []models.User
	require.NoError(t, conn.Order("id").Find(&users).Error)
	require.Len(t, users, 4)

	roles := make([]string, 0, len(users))
	for _, u := range users {
		roles = append(roles, u.Role)
		assert.True(t, u.IsActive)
		assert.NotEmpty(t, u.AvatarColor)
	}
	assert.ElementsMatch(t, []string{
		models.RoleAdmin, models.RoleDeveloper, models.RoleExpert, models.RoleClient,
	}, roles)

	var assistants []models.Assistant
	require.NoError(t, conn.Find(&assistants).Error)
	assert.Len(t, assistants, 3)
	for _, a := range assistants {
		assert.True(t, a.IsActive)
		assert.NotEmpty(t, a.Specialty)
	}
}

func TestSeedPasswordsAreHashed(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, Seed(conn))

	var admin models.User
	require.NoError(t, conn.Where("username = ?", "admin").First(&admin).Error)
	assert.NotEqual(t, "admin123", admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))
}

func TestSeedIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, Seed(conn))
	require.NoError(t, Seed(conn))

	var userCount, assistantCount int64
	require.NoError(t, conn.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, conn.Model(&models.Assistant{}).Count(&assistantCount).Error)
	assert.EqualValues(t, 4, userCount)
	assert.EqualValues(t, 3, assistantCount)
}

func TestSeedSkipsPopulatedDatabase(t *testing.T) {
	conn := openTestDB(t)
	existing := models.User{Username: "pre", Email: "pre@x.com", PasswordHash: "x", Role: models.RoleClient, IsActive: true}
	require.NoError(t, conn.Create(&existing).Error)

	require.NoError(t, Seed(conn))

	var count int64
	require.NoError(t, conn.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "seed must not touch an existing install")
}
