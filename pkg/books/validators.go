package books

type createBookPayload struct {
	Title        string         `json:"titulo" validate:"required,max=512"`
	Author       string         `json:"autor" validate:"required,max=256"`
	CreatedByOCR bool           `json:"creado_por_ocr"`
	Index        []chapterEntry `json:"indice" validate:"required,min=1,dive"`
}

// chapterEntry is one row of the extracted book index. Page counts may be
// missing when the scan could not resolve them; those chapters contribute
// zero pages to scheduling.
type chapterEntry struct {
	Number         int    `json:"numero_capitulo" validate:"required,min=1"`
	Title          string `json:"titulo_capitulo" validate:"required,max=512"`
	EstimatedPages *int   `json:"paginas_estimadas" validate:"omitempty,min=0"`
}

type updateBookPayload struct {
	Title  *string `json:"titulo" validate:"omitempty,max=512"`
	Author *string `json:"autor" validate:"omitempty,max=256"`
}

type listBooksQuery struct {
	Limit  *int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset *int `query:"offset" validate:"omitempty,min=0"`
}
