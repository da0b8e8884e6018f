package books

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lectioapp/lectio/pkg/errcodes"
	"github.com/lectioapp/lectio/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	bookService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	payload := createBookPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	chapters := make([]*models.Chapter, 0, len(payload.Index))
	for _, entry := range payload.Index {
		chapters = append(chapters, &models.Chapter{
			Number:         entry.Number,
			Title:          entry.Title,
			EstimatedPages: entry.EstimatedPages,
		})
	}

	book := &models.Book{
		UserID:       user.ID,
		Title:        payload.Title,
		Author:       payload.Author,
		CreatedByOCR: payload.CreatedByOCR,
		Chapters:     chapters,
	}

	if err := h.bookService.CreateBook(ctx, book); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := listBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, total, err := h.bookService.ListBooksWithTotal(ctx, ListBooksOptions{
		Limit:  params.Limit,
		Offset: params.Offset,
		UserID: &user.ID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"books": books,
		"total": total,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:     &id,
		UserID: &user.ID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	payload := updateBookPayload{}
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:     &id,
		UserID: &user.ID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	columns := []string{}
	if payload.Title != nil {
		book.Title = *payload.Title
		columns = append(columns, "titulo")
	}
	if payload.Author != nil {
		book.Author = *payload.Author
		columns = append(columns, "autor")
	}

	if err := h.bookService.UpdateBook(ctx, book, UpdateBookOptions{Columns: columns}); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) chapters(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	user, ok := c.Get("user").(*models.User)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	// Ownership check before exposing the chapter list.
	if _, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:     &id,
		UserID: &user.ID,
	}); err != nil {
		return errors.WithStack(err)
	}

	chapters, err := h.bookService.ListChapters(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"chapters": chapters,
	}))
}
