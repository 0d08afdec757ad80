package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/botilleria-pos/internal/application/dto"
)

// Pinger verifica la conectividad de una dependencia.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler GET /health.
type HealthHandler struct {
	db    Pinger
	cache Pinger
	log   zerolog.Logger
}

// NewHealthHandler cache puede ser nil (idempotencia en memoria).
func NewHealthHandler(db, cache Pinger, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, log: log}
}

// Check godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	out := dto.HealthResponse{Status: "ok", Database: "ok"}
	status := fiber.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		h.log.Error().Err(err).Msg("health: base de datos no disponible")
		out.Status, out.Database = "degraded", "unavailable"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		out.Cache = "ok"
		// la caja sigue operando sin Redis; solo se informa
		if err := h.cache.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Msg("health: cache no disponible")
			out.Cache = "unavailable"
		}
	}
	return c.Status(status).JSON(out)
}
