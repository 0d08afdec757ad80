package catalog

import (
	"context"
	"errors"

	"github.com/jhoicas/botilleria-pos/internal/application/dto"
	"github.com/jhoicas/botilleria-pos/internal/domain"
)

// ImportResult resumen de una carga masiva. Los índices se refieren a la entrada.
type ImportResult struct {
	Created    int
	Duplicated []int
	Rejected   map[int]error
}

// Import crea cada producto por separado: un código existente se omite y una fila inválida
// se informa sin detener la carga. Solo un error de persistencia la aborta.
func (uc *ProductUseCase) Import(ctx context.Context, rows []dto.CreateProductRequest) (ImportResult, error) {
	res := ImportResult{Rejected: make(map[int]error)}
	for i, in := range rows {
		_, err := uc.Create(ctx, in)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, domain.ErrDuplicate):
			res.Duplicated = append(res.Duplicated, i)
		case errors.Is(err, domain.ErrInvalidInput):
			res.Rejected[i] = err
		default:
			return res, err
		}
	}
	uc.log.Info().
		Int("creados", res.Created).
		Int("duplicados", len(res.Duplicated)).
		Int("rechazados", len(res.Rejected)).
		Msg("importación de productos")
	return res, nil
}
