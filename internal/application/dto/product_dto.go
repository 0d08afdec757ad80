package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Codigo       string           `json:"codigo" validate:"required,min=1,max=100"`
	Nombre       string           `json:"nombre" validate:"required,min=1,max=255"`
	Descripcion  string           `json:"descripcion"`
	PrecioCompra decimal.Decimal  `json:"precio_compra" validate:"gte=0"`
	PrecioVenta  decimal.Decimal  `json:"precio_venta" validate:"gte=0"`
	Stock        int              `json:"stock" validate:"gte=0"`
	StockMinimo  *int             `json:"stock_minimo" validate:"omitempty,gte=0"`
	Categoria    string           `json:"categoria" validate:"max=100"`
	Marca        string           `json:"marca" validate:"max=100"`
	Cantidad     *decimal.Decimal `json:"cantidad" validate:"omitempty,gte=0"`
	UnidadMedida string           `json:"unidad_medida" validate:"omitempty,oneof=ml L g kg cc unidades"`
	ImagenURL    string           `json:"imagen_url" validate:"omitempty,max=500"`
	Activo       *bool            `json:"activo"`
}

// UpdateProductRequest actualización parcial: solo se aplican los campos presentes.
type UpdateProductRequest struct {
	Codigo       *string          `json:"codigo" validate:"omitempty,min=1,max=100"`
	Nombre       *string          `json:"nombre" validate:"omitempty,min=1,max=255"`
	Descripcion  *string          `json:"descripcion"`
	PrecioCompra *decimal.Decimal `json:"precio_compra" validate:"omitempty,gte=0"`
	PrecioVenta  *decimal.Decimal `json:"precio_venta" validate:"omitempty,gte=0"`
	Stock        *int             `json:"stock" validate:"omitempty,gte=0"`
	StockMinimo  *int             `json:"stock_minimo" validate:"omitempty,gte=0"`
	Categoria    *string          `json:"categoria" validate:"omitempty,max=100"`
	Marca        *string          `json:"marca" validate:"omitempty,max=100"`
	Cantidad     *decimal.Decimal `json:"cantidad" validate:"omitempty,gte=0"`
	UnidadMedida *string          `json:"unidad_medida" validate:"omitempty,oneof=ml L g kg cc unidades"`
	ImagenURL    *string          `json:"imagen_url" validate:"omitempty,max=500"`
	Activo       *bool            `json:"activo"`
}

// Patch convierte la entrada en un entity.ProductPatch.
func (in UpdateProductRequest) Patch() entity.ProductPatch {
	return entity.ProductPatch{
		Codigo:       in.Codigo,
		Nombre:       in.Nombre,
		Descripcion:  in.Descripcion,
		PrecioCompra: in.PrecioCompra,
		PrecioVenta:  in.PrecioVenta,
		Stock:        in.Stock,
		StockMinimo:  in.StockMinimo,
		Categoria:    in.Categoria,
		Marca:        in.Marca,
		Cantidad:     in.Cantidad,
		UnidadMedida: in.UnidadMedida,
		ImagenURL:    in.ImagenURL,
		Activo:       in.Activo,
	}
}

// ProductListQuery filtros de GET /api/productos.
type ProductListQuery struct {
	Skip      int    `query:"skip" validate:"gte=0"`
	Limit     int    `query:"limit" validate:"gte=0,lte=1000"`
	Activo    *bool  `query:"activo"`
	Categoria string `query:"categoria"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           int64            `json:"id"`
	Codigo       string           `json:"codigo"`
	Nombre       string           `json:"nombre"`
	Descripcion  string           `json:"descripcion"`
	PrecioCompra decimal.Decimal  `json:"precio_compra"`
	PrecioVenta  decimal.Decimal  `json:"precio_venta"`
	Stock        int              `json:"stock"`
	StockMinimo  int              `json:"stock_minimo"`
	Categoria    string           `json:"categoria"`
	Marca        string           `json:"marca"`
	Cantidad     *decimal.Decimal `json:"cantidad"`
	UnidadMedida string           `json:"unidad_medida"`
	ImagenURL    string           `json:"imagen_url"`
	Activo       bool             `json:"activo"`
	BajoStock    bool             `json:"bajo_stock"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    *time.Time       `json:"updated_at"`
}

// ProductSearchResponse resultado compacto de /api/productos/buscar.
type ProductSearchResponse struct {
	ID          int64           `json:"id"`
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	Stock       int             `json:"stock"`
	Categoria   string          `json:"categoria"`
}

// StockMovementResponse una entrada de la bitácora de stock.
type StockMovementResponse struct {
	ID            int64     `json:"id"`
	ProductoID    int64     `json:"producto_id"`
	Tipo          string    `json:"tipo"`
	Cantidad      int       `json:"cantidad"`
	StockAnterior int       `json:"stock_anterior"`
	StockNuevo    int       `json:"stock_nuevo"`
	ReferenciaID  int64     `json:"referencia_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewProductResponse mapea la entidad a la respuesta.
func NewProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:           p.ID,
		Codigo:       p.Codigo,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		PrecioCompra: p.PrecioCompra,
		PrecioVenta:  p.PrecioVenta,
		Stock:        p.Stock,
		StockMinimo:  p.StockMinimo,
		Categoria:    p.Categoria,
		Marca:        p.Marca,
		Cantidad:     p.Cantidad,
		UnidadMedida: p.UnidadMedida,
		ImagenURL:    p.ImagenURL,
		Activo:       p.Activo,
		BajoStock:    p.IsLowStock(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func NewProductSearchResponse(p *entity.Product) ProductSearchResponse {
	return ProductSearchResponse{
		ID:          p.ID,
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		PrecioVenta: p.PrecioVenta,
		Stock:       p.Stock,
		Categoria:   p.Categoria,
	}
}

func NewStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:            m.ID,
		ProductoID:    m.ProductID,
		Tipo:          m.Type,
		Cantidad:      m.Quantity,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		ReferenciaID:  m.ReferenceID,
		CreatedAt:     m.CreatedAt,
	}
}

// ReplenishmentSuggestion producto bajo su punto de reorden con el pedido sugerido.
type ReplenishmentSuggestion struct {
	Prioridad     int             `json:"prioridad"`
	ProductID     int64           `json:"producto_id"`
	Codigo        string          `json:"codigo"`
	Nombre        string          `json:"nombre"`
	Stock         int             `json:"stock"`
	StockMinimo   int             `json:"stock_minimo"`
	StockIdeal    int             `json:"stock_ideal"`
	CantidadPedir int             `json:"cantidad_pedir"`
	PrecioCompra  decimal.Decimal `json:"precio_compra"`
	CostoEstimado decimal.Decimal `json:"costo_estimado"`
	MargenPct     decimal.Decimal `json:"margen_pct"`
}

// RestockRequest entrada de mercadería para un producto.
type RestockRequest struct {
	Cantidad      int              `json:"cantidad" validate:"gt=0"`
	CostoUnitario *decimal.Decimal `json:"costo_unitario,omitempty" validate:"omitempty,gte=0"`
}
