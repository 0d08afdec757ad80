package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/botilleria-pos/internal/application/dto"
	"github.com/jhoicas/botilleria-pos/internal/application/statistics"
	"github.com/jhoicas/botilleria-pos/internal/domain"
)

// StatisticsHandler expone el resumen diario.
type StatisticsHandler struct {
	uc  *statistics.StatisticsUseCase
	log zerolog.Logger
}

func NewStatisticsHandler(uc *statistics.StatisticsUseCase, log zerolog.Logger) *StatisticsHandler {
	return &StatisticsHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Resumen del día
// @Description  Ventas, retiros y utilidad del día más el estado del catálogo. Sin fecha usa hoy (hora de la tienda).
// @Tags         estadisticas
// @Produce      json
// @Param        fecha  query  string  false  "Día a consultar (YYYY-MM-DD)"
// @Success      200  {object}  dto.StatisticsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/estadisticas [get]
func (h *StatisticsHandler) Get(c *fiber.Ctx) error {
	asOf := h.uc.Today()
	if fecha := c.Query("fecha"); fecha != "" {
		d, err := time.ParseInLocation(time.DateOnly, fecha, h.uc.Location())
		if err != nil {
			return writeError(c, h.log, domain.Invalid("fecha", "formato esperado YYYY-MM-DD"), "")
		}
		asOf = d
	}
	summary, err := h.uc.GetDailySummary(c.UserContext(), asOf)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	return c.JSON(dto.NewStatisticsResponse(summary))
}
