package books

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lectioapp/lectio/pkg/errcodes"
	"github.com/lectioapp/lectio/pkg/migrations"
	"github.com/lectioapp/lectio/pkg/models"
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

func createTestUser(t *testing.T, db *bun.DB, username string) *models.User {
	t.Helper()

	now := time.Now()
	user := &models.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     username,
		PasswordHash: "x",
		IsActive:     true,
	}
	_, err := db.NewInsert().Model(user).Returning("*").Exec(context.Background())
	require.NoError(t, err)

	return user
}

func intptr(i int) *int {
	return &i
}

func TestCreateBookWithChapters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "ana")

	book := &models.Book{
		UserID:       user.ID,
		Title:        "Rayuela",
		Author:       "Cortázar",
		CreatedByOCR: true,
		Chapters: []*models.Chapter{
			{Number: 1, Title: "Del lado de allá", EstimatedPages: intptr(40)},
			{Number: 2, Title: "Del lado de acá", EstimatedPages: intptr(35)},
			{Number: 3, Title: "De otros lados", EstimatedPages: nil},
		},
	}

	require.NoError(t, svc.CreateBook(ctx, book))
	require.NotZero(t, book.ID)

	got, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, "Rayuela", got.Title)
	assert.True(t, got.CreatedByOCR)
	require.Len(t, got.Chapters, 3)
	assert.Equal(t, 1, got.Chapters[0].Number)
	assert.Equal(t, 75, got.TotalPages())
}

func TestRetrieveBookNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	id := 42
	_, err := svc.RetrieveBook(context.Background(), RetrieveBookOptions{ID: &id})
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "not_found", codeErr.Code)
}

func TestRetrieveBookOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	owner := createTestUser(t, db, "ana")
	other := createTestUser(t, db, "bruno")

	book := &models.Book{UserID: owner.ID, Title: "Ficciones", Author: "Borges"}
	require.NoError(t, svc.CreateBook(ctx, book))

	_, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID, UserID: &other.ID})
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "forbidden", codeErr.Code)
}

func TestListBooksFiltersByUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	ana := createTestUser(t, db, "ana")
	bruno := createTestUser(t, db, "bruno")

	for _, b := range []*models.Book{
		{UserID: ana.ID, Title: "Uno", Author: "A"},
		{UserID: ana.ID, Title: "Dos", Author: "B"},
		{UserID: bruno.ID, Title: "Tres", Author: "C"},
	} {
		require.NoError(t, svc.CreateBook(ctx, b))
	}

	books, total, err := svc.ListBooksWithTotal(ctx, ListBooksOptions{UserID: &ana.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, books, 2)
	assert.Equal(t, "Uno", books[0].Title)
}

func TestUpdateBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "ana")

	book := &models.Book{UserID: user.ID, Title: "Borrador", Author: "Anon"}
	require.NoError(t, svc.CreateBook(ctx, book))

	book.Title = "Versión final"
	require.NoError(t, svc.UpdateBook(ctx, book, UpdateBookOptions{Columns: []string{"titulo"}}))

	got, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, "Versión final", got.Title)
	assert.Equal(t, "Anon", got.Author)
}

func TestListChaptersOrdered(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "ana")

	book := &models.Book{
		UserID: user.ID,
		Title:  "Poemas",
		Author: "Varios",
		Chapters: []*models.Chapter{
			{Number: 2, Title: "Segundo", EstimatedPages: intptr(10)},
			{Number: 1, Title: "Primero", EstimatedPages: intptr(12)},
		},
	}
	require.NoError(t, svc.CreateBook(ctx, book))

	chapters, err := svc.ListChapters(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Primero", chapters[0].Title)
	assert.Equal(t, "Segundo", chapters[1].Title)
}
