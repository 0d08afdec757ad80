package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
)

var litro = decimal.NewFromInt(1)

// productosBasicos catálogo mínimo para una instalación nueva.
var productosBasicos = []entity.Product{
	{Codigo: "PISCO001", Nombre: "Pisco Alto del Carmen 35°", PrecioVenta: decimal.NewFromInt(6990), Stock: 12, Categoria: "Pisco", Marca: "Alto del Carmen"},
	{Codigo: "VODKA001", Nombre: "Vodka Absolut", PrecioVenta: decimal.NewFromInt(14990), Stock: 8, Categoria: "Vodka", Marca: "Absolut"},
	{Codigo: "RON001", Nombre: "Ron Bacardi Blanco", PrecioVenta: decimal.NewFromInt(8990), Stock: 10, Categoria: "Ron", Marca: "Bacardi"},
}

// SeedIfEmpty carga productosBasicos solo si el catálogo está vacío. Devuelve cuántos creó.
func (uc *ProductUseCase) SeedIfEmpty(ctx context.Context) (int, error) {
	n, err := uc.repo.Count(ctx)
	if err != nil {
		return 0, domain.Persistence("contar productos", err)
	}
	if n > 0 {
		uc.log.Info().Int("productos", n).Msg("catálogo con datos, no se cargan productos base")
		return 0, nil
	}
	for _, base := range productosBasicos {
		p := base
		p.StockMinimo = entity.DefaultStockMinimo
		p.Cantidad = &litro
		p.UnidadMedida = "L"
		p.Activo = true
		if err := uc.repo.Create(ctx, &p); err != nil {
			return 0, domain.Persistence("cargar producto base "+p.Codigo, err)
		}
	}
	uc.log.Info().Int("productos", len(productosBasicos)).Msg("productos base cargados")
	return len(productosBasicos), nil
}
