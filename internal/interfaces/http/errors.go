package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/botilleria-pos/internal/application/dto"
	"github.com/jhoicas/botilleria-pos/internal/domain"
)

// Códigos de error devueltos en dto.ErrorResponse.Code.
const (
	CodeValidation        = "VALIDATION"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicate         = "DUPLICATE"
	CodeConflict          = "IDEMPOTENCY_CONFLICT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL"
)

func errorJSON(c *fiber.Ctx, status int, code, detail string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Detail: detail})
}

// writeError traduce un error de dominio a la respuesta HTTP. notFound es el detalle del 404
// cuando el error es domain.ErrNotFound sin tipo (p. ej. "Venta no encontrada").
func writeError(c *fiber.Ctx, log zerolog.Logger, err error, notFound string) error {
	var (
		stockErr   *domain.InsufficientStockError
		missingErr *domain.ProductNotFoundError
		validErr   *domain.ValidationError
	)
	switch {
	case errors.As(err, &stockErr):
		return errorJSON(c, fiber.StatusBadRequest, CodeInsufficientStock, stockErr.Error())
	case errors.As(err, &missingErr):
		return errorJSON(c, fiber.StatusNotFound, CodeNotFound, missingErr.Error())
	case errors.As(err, &validErr):
		return errorJSON(c, fiber.StatusBadRequest, CodeValidation, validErr.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return errorJSON(c, fiber.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, domain.ErrPersistence):
		// antes que ErrNotFound: un fallo de la tx puede envolver cualquier causa
		log.Error().Err(err).Str("path", c.Path()).Msg("error de persistencia")
		return errorJSON(c, fiber.StatusInternalServerError, CodeInternal, "error interno, intente nuevamente")
	case errors.Is(err, domain.ErrNotFound):
		if notFound == "" {
			notFound = "Recurso no encontrado"
		}
		return errorJSON(c, fiber.StatusNotFound, CodeNotFound, notFound)
	case errors.Is(err, domain.ErrDuplicate):
		return errorJSON(c, fiber.StatusConflict, CodeDuplicate, "El código de producto ya existe")
	case errors.Is(err, domain.ErrConflict):
		return errorJSON(c, fiber.StatusConflict, CodeConflict, "la solicitud con esa Idempotency-Key está en curso")
	case errors.Is(err, domain.ErrUnauthorized):
		return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, "no autorizado")
	case errors.Is(err, domain.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, CodeForbidden, "acceso denegado")
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
		return errorJSON(c, fiber.StatusInternalServerError, CodeInternal, "error interno, intente nuevamente")
	}
}

// ErrorHandler manejador global de Fiber para errores que no pasan por writeError
// (rutas inexistentes, panics recuperados, cuerpos demasiado grandes).
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := CodeInternal
			switch fe.Code {
			case fiber.StatusNotFound:
				code = CodeNotFound
			case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
				code = CodeValidation
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			}
			return errorJSON(c, fe.Code, code, fe.Message)
		}
		return writeError(c, log, err, "")
	}
}
