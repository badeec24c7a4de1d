package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lexhelp/platform/internal/audit"
	"github.com/lexhelp/platform/internal/db"
	"github.com/lexhelp/platform/internal/models"
)

// setupTestDB opens a unique in-memory DB per test name to avoid leakage via
// the shared cache.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := db.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	return conn
}

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	conn := setupTestDB(t)
	rec := audit.NewRecorder(conn, zap.NewNop().Sugar())
	return NewAuthService(conn, rec), conn
}

func logCount(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(&models.Log{}).Count(&n).Error)
	return n
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	userID, err := svc.Register(ctx, "alice", "alice@x.com", "pw123", models.RoleClient)
	require.NoError(t, err)
	assert.NotZero(t, userID)

	id, err := svc.Authenticate(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, models.RoleClient, id.Role)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, conn := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@x.com", "pw123", models.RoleClient)
	require.NoError(t, err)

	cases := []struct {
		name     string
		username string
		email    string
	}{
		{"same username", "alice", "other@x.com"},
		{"same email", "bob", "alice@x.com"},
		{"both taken", "alice", "alice@x.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.email, "pw", models.RoleClient)
			assert.ErrorIs(t, err, ErrDuplicate)
		})
	}

	var count int64
	require.NoError(t, conn.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "no rows may be created on conflict")
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@x.com", "pw", models.RoleClient)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "eve", "eve@x.com", "pw", "superuser")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	svc, conn := newAuthService(t)
	ctx := context.Background()

	userID, err := svc.Register(ctx, "alice", "alice@x.com", "pw123", models.RoleClient)
	require.NoError(t, err)

	var user models.User
	require.NoError(t, conn.First(&user, userID).Error)
	assert.NotEqual(t, "pw123", user.PasswordHash)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2"), "expected a bcrypt digest")

	var logs []models.Log
	require.NoError(t, conn.Find(&logs).Error)
	for _, l := range logs {
		assert.NotContains(t, l.Message, "pw123", "audit log must not carry plaintext passwords")
	}
}

func TestAuthenticateErrorsAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@x.com", "pw123", models.RoleClient)
	require.NoError(t, err)

	_, unknownErr := svc.Authenticate(ctx, "nobody", "whatever")
	_, wrongPassErr := svc.Authenticate(ctx, "alice", "wrong")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	// the exact same text, so callers cannot enumerate usernames
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	userID, err := svc.Register(ctx, "alice", "alice@x.com", "pw123", models.RoleClient)
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, userID, false))

	// disabled wins regardless of password correctness
	_, err = svc.Authenticate(ctx, "alice", "pw123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
	_, err = svc.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestSetActiveIdempotent(t *testing.T) {
	svc, conn := newAuthService(t)
	ctx := context.Background()

	userID, err := svc.Register(ctx, "alice", "alice@x.com", "pw123", models.RoleClient)
	require.NoError(t, err)

	before := logCount(t, conn)
	require.NoError(t, svc.SetActive(ctx, userID, true))
	assert.EqualValues(t, before+1, logCount(t, conn), "exactly one audit entry per call")

	require.NoError(t, svc.SetActive(ctx, userID, true))
	assert.EqualValues(t, before+2, logCount(t, conn))

	user, err := svc.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, user.IsActive)
}

func TestSetActiveMissingUser(t *testing.T) {
	svc, _ := newAuthService(t)
	assert.ErrorIs(t, svc.SetActive(context.Background(), 9999, false), ErrNotFound)
}

func TestSetRole(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	userID, err := svc.Register(ctx, "alice", "alice@x.com", "pw123", models.RoleClient)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetRole(ctx, userID, "root"), ErrValidation)
	assert.ErrorIs(t, svc.SetRole(ctx, 9999, models.RoleExpert), ErrNotFound)

	require.NoError(t, svc.SetRole(ctx, userID, models.RoleExpert))
	user, err := svc.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleExpert, user.Role)
}

func TestDeleteCascade(t *testing.T) {
	svc, conn := newAuthService(t)
	ctx := context.Background()

	userID, err := svc.Register(ctx, "alice", "alice@x.com", "pw123", models.RoleClient)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		a := models.Assistant{Name: fmt.Sprintf("helper-%d", i), CreatedBy: &userID, IsActive: true}
		require.NoError(t, conn.Create(&a).Error)
	}
	for i := 0; i < 2; i++ {
		m := models.ChatMessage{UserID: userID, Message: "question"}
		require.NoError(t, conn.Create(&m).Error)
	}

	require.NoError(t, svc.Delete(ctx, userID))

	var userCount, msgCount int64
	require.NoError(t, conn.Model(&models.User{}).Where("id = ?", userID).Count(&userCount).Error)
	require.NoError(t, conn.Model(&models.ChatMessage{}).Where("user_id = ?", userID).Count(&msgCount).Error)
	assert.Zero(t, userCount, "user row removed")
	assert.Zero(t, msgCount, "user messages removed")

	var assistants []models.Assistant
	require.NoError(t, conn.Find(&assistants).Error)
	require.Len(t, assistants, 2)
	for _, a := range assistants {
		assert.Nil(t, a.CreatedBy, "assistants are detached, not deleted")
	}
}

func TestDeleteMissingUser(t *testing.T) {
	svc, _ := newAuthService(t)
	assert.ErrorIs(t, svc.Delete(context.Background(), 424242), ErrNotFound)
}

func TestExists(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	userID, err := svc.Register(ctx, "alice", "alice@x.com", "pw123", models.RoleClient)
	require.NoError(t, err)

	assert.True(t, svc.Exists(ctx, userID))
	require.NoError(t, svc.SetActive(ctx, userID, false))
	assert.False(t, svc.Exists(ctx, userID), "deactivated users fail the session check")
	assert.False(t, svc.Exists(ctx, 9999))
}
