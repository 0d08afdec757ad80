package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/botilleria-pos/internal/application/catalog"
	"github.com/jhoicas/botilleria-pos/internal/application/dto"
	"github.com/jhoicas/botilleria-pos/internal/application/ledger"
	"github.com/jhoicas/botilleria-pos/internal/domain"
)

const msgProductNotFound = "Producto no encontrado"

// ProductHandler maneja las peticiones HTTP del catálogo.
type ProductHandler struct {
	uc      *catalog.ProductUseCase
	restock *ledger.LedgerUseCase
	log     zerolog.Logger
}

// NewProductHandler construye el handler. restock atiende las entradas de mercadería.
func NewProductHandler(uc *catalog.ProductUseCase, restock *ledger.LedgerUseCase, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, restock: restock, log: log}
}

// Create godoc
// @Summary      Crear producto
// @Tags         productos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productos [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err, "")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         productos
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err, msgProductNotFound)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         productos
// @Produce      json
// @Param        skip       query  int     false  "Desplazamiento"  default(0)
// @Param        limit      query  int     false  "Límite"          default(100)
// @Param        activo     query  bool    false  "Filtrar por estado"
// @Param        categoria  query  string  false  "Filtrar por categoría"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/productos [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, h.log, err, "")
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar productos activos por código o nombre
// @Tags         productos
// @Produce      json
// @Param        q    query  string  true  "Término de búsqueda"
// @Success      200  {array}  dto.ProductSearchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/productos/buscar [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto (parcial)
// @Tags         productos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	var in dto.UpdateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err, "")
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err, msgProductNotFound)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Desactivar producto (baja lógica)
// @Tags         productos
// @Security     Bearer
// @Param        id   path  int  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err, msgProductNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Movements godoc
// @Summary      Bitácora de stock del producto
// @Tags         productos
// @Produce      json
// @Param        id     path   int  true   "ID del producto"
// @Param        limit  query  int  false  "Límite"  default(50)
// @Success      200  {array}  dto.StockMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/movimientos [get]
func (h *ProductHandler) Movements(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	out, err := h.uc.Movements(c.UserContext(), id, c.QueryInt("limit", catalog.DefaultMovementsLimit))
	if err != nil {
		return writeError(c, h.log, err, msgProductNotFound)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Sugerencias de reposición
// @Description  Productos activos bajo su stock mínimo, priorizados por margen.
// @Tags         productos
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestion
// @Router       /api/productos/reposicion [get]
func (h *ProductHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.uc.Replenishment(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	return c.JSON(out)
}

// Restock godoc
// @Summary      Registrar entrada de mercadería
// @Tags         productos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                 true  "ID del producto"
// @Param        body  body  dto.RestockRequest  true  "Cantidad y costo unitario"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/reposicion [post]
func (h *ProductHandler) Restock(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	var in dto.RestockRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err, "")
	}
	p, err := h.restock.RecordRestock(c.UserContext(), ledger.RestockInput{
		ProductID: id,
		Quantity:  in.Cantidad,
		UnitCost:  in.CostoUnitario,
	})
	if err != nil {
		return writeError(c, h.log, err, msgProductNotFound)
	}
	return c.JSON(dto.NewProductResponse(p))
}

// pathID lee el parámetro :id como entero positivo.
func pathID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id", "debe ser un entero positivo")
	}
	return int64(id), nil
}
