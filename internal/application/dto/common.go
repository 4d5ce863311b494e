package dto

// DefaultPageLimit tamaño de página cuando el cliente no envía limit.
const DefaultPageLimit = 50

// Page ventana de un listado paginado (?limit=&offset=).
type Page struct {
	Limit  int `query:"limit" validate:"min=0,max=500"`
	Offset int `query:"offset" validate:"min=0"`
}

// Normalized devuelve la página con DefaultPageLimit si no se pidió límite.
func (p Page) Normalized() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageResponse metadatos de página. HasMore es true si quedan movimientos tras esta página.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// NewPageResponse arma los metadatos a partir de la página pedida, los elementos devueltos y el total.
func NewPageResponse(p Page, returned, total int) PageResponse {
	return PageResponse{
		Limit:   p.Limit,
		Offset:  p.Offset,
		Total:   total,
		HasMore: p.Offset+returned < total,
	}
}

// ErrorResponse cuerpo de error HTTP; Code es estable, Message es para humanos.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
