package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderRequestID encabezado con el id de la petición.
const HeaderRequestID = "X-Request-ID"

// requestObserver recibe la duración de cada petición (métricas).
type requestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestLogger asigna un X-Request-ID (si el cliente no lo envió), registra cada petición
// y, si obs no es nil, reporta su latencia por ruta.
func RequestLogger(log zerolog.Logger, obs requestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(HeaderRequestID, rid)

		chainErr := c.Next()
		if chainErr != nil {
			// el ErrorHandler escribe la respuesta; se invoca aquí para loguear el status real
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		evt := log.Info()
		if status >= fiber.StatusInternalServerError {
			evt = log.Error()
		} else if status >= fiber.StatusBadRequest {
			evt = log.Warn()
		}
		evt.Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("petición HTTP")

		if obs != nil {
			obs.ObserveRequest(c.Method(), c.Route().Path, status, elapsed)
		}
		return nil
	}
}

// RequestID devuelve el id asignado por RequestLogger.
func RequestID(c *fiber.Ctx) string {
	s, _ := c.Locals(HeaderRequestID).(string)
	return s
}
