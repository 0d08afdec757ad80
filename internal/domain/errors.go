package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrStockWouldGoNegative = errors.New("el stock quedaría negativo")
	ErrPersistence          = errors.New("error de persistencia")
)

// ProductNotFoundError indica que una línea referencia un producto inexistente.
// errors.Is(err, ErrNotFound) es verdadero.
type ProductNotFoundError struct {
	ID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Producto %d no encontrado", e.ID)
}

func (e *ProductNotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError describe la línea que pidió más unidades de las disponibles.
// Message es el texto que se muestra al usuario en caja.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
	Message     string
}

func (e *InsufficientStockError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Stock insuficiente para %s. Disponible: %d", e.ProductName, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// ValidationError detalla qué campo de la entrada no es válido.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid construye un ValidationError para el campo indicado.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Persistence envuelve un error del almacenamiento para que coincida con ErrPersistence
// sin perder la causa original.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
