// importar carga productos desde una planilla CSV (exportada desde Excel) al catálogo.
//
// Uso: go run ./cmd/importar [-latin1] [-sep ';'] [-decimal ','] productos.csv
// Los códigos ya existentes se omiten; las filas inválidas se informan y no detienen la carga.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/jhoicas/botilleria-pos/internal/application/catalog"
	"github.com/jhoicas/botilleria-pos/internal/application/dto"
	"github.com/jhoicas/botilleria-pos/internal/infrastructure/csvimport"
	"github.com/jhoicas/botilleria-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/botilleria-pos/pkg/config"
	"github.com/jhoicas/botilleria-pos/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "archivo codificado en Windows-1252")
	sep := flag.String("sep", ";", "separador de columnas")
	decSep := flag.String("decimal", ",", "separador decimal de los montos")
	flag.Parse()

	if flag.NArg() != 1 || len(*sep) != 1 || len(*decSep) != 1 {
		fmt.Fprintln(os.Stderr, "uso: importar [-latin1] [-sep ';'] [-decimal ','] productos.csv")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir planilla")
	}
	defer f.Close()

	rows, err := csvimport.Read(f, csvimport.Options{
		Comma:   rune((*sep)[0]),
		Latin1:  *latin1,
		Decimal: rune((*decSep)[0]),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("leer planilla")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.NewRepositories(pool)
	uc := catalog.NewProductUseCase(postgres.NewTxRunner(pool), repos.Products, repos.Movements, log.Zerolog())

	in := make([]dto.CreateProductRequest, len(rows))
	for i, r := range rows {
		in[i] = r.Product
	}
	res, err := uc.Import(ctx, in)
	if err != nil {
		log.Fatal().Err(err).Int("creados", res.Created).Msg("importación interrumpida")
	}

	for _, i := range res.Duplicated {
		log.Warn().Int("linea", rows[i].Line).Str("codigo", rows[i].Product.Codigo).Msg("código existente, se omite")
	}
	rejected := make([]int, 0, len(res.Rejected))
	for i := range res.Rejected {
		rejected = append(rejected, i)
	}
	sort.Ints(rejected)
	for _, i := range rejected {
		log.Error().Err(res.Rejected[i]).Int("linea", rows[i].Line).Str("codigo", rows[i].Product.Codigo).Msg("fila rechazada")
	}
	fmt.Printf("Importados %d de %d productos (%d existentes, %d rechazados)\n",
		res.Created, len(rows), len(res.Duplicated), len(res.Rejected))
}
