package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultStockMinimo punto de reorden asignado cuando el producto se crea sin uno.
const DefaultStockMinimo = 5

// Product representa un producto del catálogo de la botillería.
// Stock solo lo modifica el motor de ventas/retiros o una actualización directa;
// nunca se borra físicamente, Activo=false es la baja lógica.
type Product struct {
	ID           int64
	Codigo       string // código de negocio único
	Nombre       string
	Descripcion  string
	PrecioCompra decimal.Decimal
	PrecioVenta  decimal.Decimal
	Stock        int
	StockMinimo  int
	Categoria    string
	Marca        string
	Cantidad     *decimal.Decimal // 500, 1.5, 330 ...
	UnidadMedida string           // ml, L, g, kg, cc, unidades
	ImagenURL    string
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// IsLowStock indica si el producto está bajo su punto de reorden.
func (p *Product) IsLowStock() bool {
	return p.Stock < p.StockMinimo
}

// ProductPredicate filtro fijo para contar productos activos.
type ProductPredicate int

const (
	// PredicateAll cuenta todos los productos activos.
	PredicateAll ProductPredicate = iota
	// PredicateLowStock cuenta los activos con stock < stock_minimo.
	PredicateLowStock
)

// Match evalúa el predicado sobre un producto (sin mirar Activo).
func (pr ProductPredicate) Match(p *Product) bool {
	switch pr {
	case PredicateLowStock:
		return p.IsLowStock()
	default:
		return true
	}
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Activo    *bool
	Categoria string
	Skip      int
	Limit     int
}

// ProductPatch actualización parcial: solo se aplican los campos no nulos.
type ProductPatch struct {
	Codigo       *string
	Nombre       *string
	Descripcion  *string
	PrecioCompra *decimal.Decimal
	PrecioVenta  *decimal.Decimal
	Stock        *int
	StockMinimo  *int
	Categoria    *string
	Marca        *string
	Cantidad     *decimal.Decimal
	UnidadMedida *string
	ImagenURL    *string
	Activo       *bool
}

// Apply copia al producto los campos presentes en el patch.
func (pt ProductPatch) Apply(p *Product) {
	if pt.Codigo != nil {
		p.Codigo = *pt.Codigo
	}
	if pt.Nombre != nil {
		p.Nombre = *pt.Nombre
	}
	if pt.Descripcion != nil {
		p.Descripcion = *pt.Descripcion
	}
	if pt.PrecioCompra != nil {
		p.PrecioCompra = *pt.PrecioCompra
	}
	if pt.PrecioVenta != nil {
		p.PrecioVenta = *pt.PrecioVenta
	}
	if pt.Stock != nil {
		p.Stock = *pt.Stock
	}
	if pt.StockMinimo != nil {
		p.StockMinimo = *pt.StockMinimo
	}
	if pt.Categoria != nil {
		p.Categoria = *pt.Categoria
	}
	if pt.Marca != nil {
		p.Marca = *pt.Marca
	}
	if pt.Cantidad != nil {
		c := *pt.Cantidad
		p.Cantidad = &c
	}
	if pt.UnidadMedida != nil {
		p.UnidadMedida = *pt.UnidadMedida
	}
	if pt.ImagenURL != nil {
		p.ImagenURL = *pt.ImagenURL
	}
	if pt.Activo != nil {
		p.Activo = *pt.Activo
	}
}
