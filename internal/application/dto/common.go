package dto

// PageRequest paginación skip/limit de los listados.
type PageRequest struct {
	Skip  int `query:"skip" validate:"gte=0"`
	Limit int `query:"limit" validate:"gte=0,lte=1000"`
}

// DefaultPage aplica el límite por defecto del listado si no vino informado.
func (p *PageRequest) DefaultPage(limit int) {
	if p.Limit <= 0 {
		p.Limit = limit
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// HealthResponse salida de /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
}
