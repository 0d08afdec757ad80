package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/botilleria-pos/internal/application/dto"
	"github.com/jhoicas/botilleria-pos/internal/application/ledger"
)

// DefaultWithdrawalsLimit listado de retiros por defecto.
const DefaultWithdrawalsLimit = 100

const msgWithdrawalNotFound = "Retiro no encontrado"

// WithdrawalHandler maneja las peticiones HTTP de retiros internos.
type WithdrawalHandler struct {
	uc  *ledger.LedgerUseCase
	log zerolog.Logger
}

func NewWithdrawalHandler(uc *ledger.LedgerUseCase, log zerolog.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar retiro (merma o consumo interno)
// @Tags         retiros
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave para reintentos seguros"
// @Param        body  body  dto.CreateWithdrawalRequest  true  "Líneas del retiro"
// @Success      201   {object}  dto.WithdrawalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/retiros [post]
func (h *WithdrawalHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWithdrawalRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err, "")
	}
	w, replayed, err := h.uc.RecordWithdrawalOnce(c.UserContext(), c.Get(HeaderIdempotencyKey), in.Input())
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	if replayed {
		c.Set(HeaderIdempotentReplay, "true")
		return c.JSON(dto.NewWithdrawalResponse(w))
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewWithdrawalResponse(w))
}

// List godoc
// @Summary      Listar retiros (más recientes primero)
// @Tags         retiros
// @Produce      json
// @Param        skip   query  int  false  "Desplazamiento"  default(0)
// @Param        limit  query  int  false  "Límite"          default(100)
// @Success      200  {array}  dto.WithdrawalResponse
// @Router       /api/retiros [get]
func (h *WithdrawalHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return writeError(c, h.log, err, "")
	}
	page.DefaultPage(DefaultWithdrawalsLimit)
	list, err := h.uc.ListWithdrawals(c.UserContext(), page.Skip, page.Limit)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	out := make([]dto.WithdrawalResponse, 0, len(list))
	for _, w := range list {
		out = append(out, dto.NewWithdrawalResponse(w))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener retiro con sus líneas
// @Tags         retiros
// @Produce      json
// @Param        id   path  int  true  "ID del retiro"
// @Success      200  {object}  dto.WithdrawalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/retiros/{id} [get]
func (h *WithdrawalHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	w, err := h.uc.GetWithdrawal(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err, msgWithdrawalNotFound)
	}
	return c.JSON(dto.NewWithdrawalResponse(w))
}
