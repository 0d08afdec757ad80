package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/botilleria-pos/internal/application/dto"
	"github.com/jhoicas/botilleria-pos/internal/application/ledger"
)

const (
	// DefaultSalesLimit listado de ventas por defecto.
	DefaultSalesLimit = 50
	// HeaderIdempotencyKey reintentos seguros de POST desde la caja.
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderIdempotentReplay marca una respuesta repetida de una key ya completada.
	HeaderIdempotentReplay = "Idempotent-Replayed"

	msgSaleNotFound = "Venta no encontrada"
)

// SaleHandler maneja las peticiones HTTP de ventas.
type SaleHandler struct {
	uc      *ledger.LedgerUseCase
	receipt *ledger.ReceiptUseCase
	log     zerolog.Logger
}

// NewSaleHandler construye el handler. receipt puede ser nil (sin boletas).
func NewSaleHandler(uc *ledger.LedgerUseCase, receipt *ledger.ReceiptUseCase, log zerolog.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, receipt: receipt, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida todas las líneas contra el stock y descuenta en una sola transacción.
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave para reintentos seguros"
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas y método de pago"
// @Success      201   {object}  dto.SaleResponse
// @Success      200   {object}  dto.SaleResponse  "Reintento con la misma Idempotency-Key"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ventas [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err, "")
	}
	sale, replayed, err := h.uc.RecordSaleOnce(c.UserContext(), c.Get(HeaderIdempotencyKey), in.Input())
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	if replayed {
		c.Set(HeaderIdempotentReplay, "true")
		return c.JSON(dto.NewSaleResponse(sale))
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSaleResponse(sale))
}

// List godoc
// @Summary      Listar ventas (más recientes primero)
// @Tags         ventas
// @Produce      json
// @Param        skip   query  int  false  "Desplazamiento"  default(0)
// @Param        limit  query  int  false  "Límite"          default(50)
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/ventas [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return writeError(c, h.log, err, "")
	}
	page.DefaultPage(DefaultSalesLimit)
	list, err := h.uc.ListSales(c.UserContext(), page.Skip, page.Limit)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.NewSaleResponse(s))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con sus líneas
// @Tags         ventas
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	sale, err := h.uc.GetSale(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err, msgSaleNotFound)
	}
	return c.JSON(dto.NewSaleResponse(sale))
}

// Receipt godoc
// @Summary      Descargar boleta en PDF
// @Tags         ventas
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id}/boleta [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	if h.receipt == nil {
		return errorJSON(c, fiber.StatusNotImplemented, "NOT_IMPLEMENTED", "boletas no habilitadas")
	}
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	doc, filename, err := h.receipt.SaleReceipt(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err, msgSaleNotFound)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(doc)
}
