package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Chapter struct {
	bun.BaseModel `bun:"table:chapters,alias:c"`

	ID             int       `bun:",pk,nullzero" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	BookID         int       `bun:",nullzero" json:"book_id"`
	Number         int       `bun:"numero_capitulo" json:"numero_capitulo"`
	Title          string    `bun:"titulo_capitulo,nullzero" json:"titulo_capitulo"`
	EstimatedPages *int      `bun:"paginas_estimadas" json:"paginas_estimadas"`
}

// Pages returns the chapter's estimated page count, treating a missing count
// as zero. The generator skips zero-page chapters entirely.
func (c *Chapter) Pages() int {
	if c.EstimatedPages == nil || *c.EstimatedPages < 0 {
		return 0
	}
	return *c.EstimatedPages
}
