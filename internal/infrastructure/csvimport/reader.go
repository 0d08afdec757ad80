// Package csvimport lee planillas de productos exportadas desde Excel.
//
// Columnas reconocidas (encabezado obligatorio, orden libre, mayúsculas indistintas):
// codigo, nombre, descripcion, precio_compra, precio_venta, stock, stock_minimo,
// categoria, marca, cantidad, unidad_medida, imagen_url.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/botilleria-pos/internal/application/dto"
)

// Options formato de la planilla.
type Options struct {
	Comma   rune // separador de columnas; 0 usa ';'
	Latin1  bool // archivo en Windows-1252 (Excel en español)
	Decimal rune // separador decimal; 0 usa ',' y '.' se toma como separador de miles
}

// Row un producto leído y la línea del archivo de la que salió.
type Row struct {
	Line    int
	Product dto.CreateProductRequest
}

// ErrMissingColumn el encabezado no trae una columna obligatoria.
var ErrMissingColumn = errors.New("csvimport: falta columna obligatoria")

var required = []string{"codigo", "nombre", "precio_venta"}

// Read decodifica todas las filas. Un valor mal formado aborta la lectura indicando línea y columna.
func Read(r io.Reader, opts Options) ([]Row, error) {
	if opts.Comma == 0 {
		opts.Comma = ';'
	}
	if opts.Decimal == 0 {
		opts.Decimal = ','
	}
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	} else {
		// quita el BOM que agrega Excel al guardar como "CSV UTF-8"
		r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.Comma
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csvimport: leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvimport: %w", err)
		}
		if blank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		p, err := parseRow(rec, cols, opts.Decimal)
		if err != nil {
			return nil, fmt.Errorf("csvimport: línea %d: %w", line, err)
		}
		rows = append(rows, Row{Line: line, Product: p})
	}
	return rows, nil
}

func parseRow(rec []string, cols map[string]int, decSep rune) (dto.CreateProductRequest, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	p := dto.CreateProductRequest{
		Codigo:       get("codigo"),
		Nombre:       get("nombre"),
		Descripcion:  get("descripcion"),
		Categoria:    get("categoria"),
		Marca:        get("marca"),
		UnidadMedida: get("unidad_medida"),
		ImagenURL:    get("imagen_url"),
	}

	var err error
	if p.PrecioVenta, err = parseMoney(get("precio_venta"), decSep); err != nil {
		return p, fmt.Errorf("precio_venta: %w", err)
	}
	if p.PrecioCompra, err = parseMoney(get("precio_compra"), decSep); err != nil {
		return p, fmt.Errorf("precio_compra: %w", err)
	}
	if s := get("stock"); s != "" {
		if p.Stock, err = strconv.Atoi(s); err != nil {
			return p, fmt.Errorf("stock: %q no es un entero", s)
		}
	}
	if s := get("stock_minimo"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return p, fmt.Errorf("stock_minimo: %q no es un entero", s)
		}
		p.StockMinimo = &n
	}
	if s := get("cantidad"); s != "" {
		d, err := parseMoney(s, decSep)
		if err != nil {
			return p, fmt.Errorf("cantidad: %w", err)
		}
		p.Cantidad = &d
	}
	return p, nil
}

// parseMoney acepta "$6.990", "6990", "1.250,50". Vacío es cero.
func parseMoney(s string, decSep rune) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if decSep == ',' {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q no es un monto válido", s)
	}
	return d, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
