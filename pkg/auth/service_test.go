package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lectioapp/lectio/pkg/errcodes"
	"github.com/lectioapp/lectio/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestRegisterAndAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, "ana", nil, "correct horse battery")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)

	got, err := svc.Authenticate(ctx, "ana", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// Usernames match case-insensitively.
	_, err = svc.Authenticate(ctx, "ANA", "correct horse battery")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "ana", "wrong password")
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "unauthorized", codeErr.Code)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana", nil, "correct horse battery")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Ana", nil, "another password")
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "validation_error", codeErr.Code)
}

func TestTokenRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, "ana", nil, "correct horse battery")
	require.NoError(t, err)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ana", claims.Username)

	// A token signed with a different secret is rejected.
	otherSvc := NewService(db, "other-secret")
	_, err = otherSvc.ValidateToken(token)
	require.Error(t, err)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("secreto123")
	require.NoError(t, err)

	assert.True(t, CheckPassword("secreto123", hash))
	assert.False(t, CheckPassword("secreto124", hash))
}
