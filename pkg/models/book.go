package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       int       `bun:",nullzero" json:"user_id"`
	Title        string    `bun:"titulo,nullzero" json:"titulo"`
	Author       string    `bun:"autor,nullzero" json:"autor"`
	CreatedByOCR bool      `bun:"creado_por_ocr" json:"creado_por_ocr"`

	// Relations
	Chapters []*Chapter `bun:"rel:has-many,join:id=book_id" json:"capitulos,omitempty"`
}

// TotalPages sums the estimated pages across the book's loaded chapters.
// Chapters with a missing page count contribute nothing.
func (b *Book) TotalPages() int {
	total := 0
	for _, ch := range b.Chapters {
		total += ch.Pages()
	}
	return total
}
