package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vihaanharrison/portfolio-backend/database"
	"github.com/vihaanharrison/portfolio-backend/errs"
	"github.com/vihaanharrison/portfolio-backend/models"
)

func testAuthConfig() map[string]string {
	return map[string]string{
		"ADMIN_ALLOWED_EMAILS":    "owner@example.com, backup@example.com",
		"ADMIN_FALLBACK_PASSWORD": "first-time-secret",
		"ADMIN_ACCESS_CODE":       "open-sesame",
		"JWT_SECRET":              "test-signing-key",
	}
}

func newTestAuthService(t *testing.T) (*AuthService, database.Database) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	currentDB := database.New(db)
	auth, err := NewAuthService(currentDB, testAuthConfig())
	require.NoError(t, err)
	return auth, currentDB
}

func TestNewAuthServiceRequiresConfig(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	currentDB := database.New(db)

	for _, missing := range []string{"ADMIN_ALLOWED_EMAILS", "ADMIN_FALLBACK_PASSWORD", "JWT_SECRET"} {
		cfg := testAuthConfig()
		delete(cfg, missing)
		_, err := NewAuthService(currentDB, cfg)
		require.Error(t, err, "missing %s must be refused", missing)
	}
}

func TestSignInRefusesDisallowedEmailBeforeCredentials(t *testing.T) {
	auth, _ := newTestAuthService(t)

	// Even the correct fallback secret must not get a stranger in.
	_, err := auth.SignIn("stranger@example.com", "first-time-secret")
	require.Error(t, err)
	assert.True(t, errs.IsEmailNotAllowedError(err))
}

func TestSignInProvisionsAllowedEmailOnFirstUse(t *testing.T) {
	auth, db := newTestAuthService(t)

	account, err := auth.SignIn("Owner@Example.com", "anything-on-first-sign-in")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", account.Email)

	// The account now exists with the fallback secret as its password.
	stored, err := db.AccountRepo().FindByEmail("owner@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NoError(t, stored.CheckPassword("first-time-secret"))

	// And the admin role was materialized.
	isAdmin, err := auth.IsAdmin(account.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestSignInRejectsWrongPasswordForExistingAccount(t *testing.T) {
	auth, _ := newTestAuthService(t)

	first, err := auth.SignIn("owner@example.com", "ignored-at-provisioning")
	require.NoError(t, err)

	_, err = auth.SignIn("owner@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, errs.IsEmailNotAllowedError(err))

	// The right password still works.
	again, err := auth.SignIn("owner@example.com", "first-time-secret")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}

func TestEnsureAdminRoleIsIdempotent(t *testing.T) {
	auth, db := newTestAuthService(t)

	account, err := auth.SignIn("owner@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, auth.EnsureAdminRole(account))
	require.NoError(t, auth.EnsureAdminRole(account))

	count, err := db.RoleRepo().CountFor(account.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSignInWithCode(t *testing.T) {
	auth, _ := newTestAuthService(t)

	_, err := auth.SignInWithCode("wrong-code")
	require.Error(t, err)

	// The right code signs in as the first allow-listed email.
	account, err := auth.SignInWithCode("open-sesame")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", account.Email)

	isAdmin, err := auth.IsAdmin(account.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestGrantByCode(t *testing.T) {
	auth, db := newTestAuthService(t)

	account, err := auth.SignIn("backup@example.com", "pw")
	require.NoError(t, err)

	require.Error(t, auth.GrantByCode(account, "nope"))
	require.NoError(t, auth.GrantByCode(account, "open-sesame"))

	count, err := db.RoleRepo().CountFor(account.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTokenRoundTrip(t *testing.T) {
	auth, _ := newTestAuthService(t)

	account, err := auth.SignIn("owner@example.com", "pw")
	require.NoError(t, err)

	token, err := auth.IssueToken(account)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, parsed.ID)
	assert.Equal(t, account.Email, parsed.Email)

	_, err = auth.ParseToken("not.a.token")
	require.Error(t, err)
}
