package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/botilleria-pos/internal/application/catalog"
	"github.com/jhoicas/botilleria-pos/internal/application/ledger"
	"github.com/jhoicas/botilleria-pos/internal/application/statistics"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
	"github.com/jhoicas/botilleria-pos/internal/infrastructure/cache"
	"github.com/jhoicas/botilleria-pos/internal/infrastructure/memory"
	"github.com/jhoicas/botilleria-pos/internal/infrastructure/metrics"
	"github.com/jhoicas/botilleria-pos/internal/infrastructure/migrations"
	infrapdf "github.com/jhoicas/botilleria-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/botilleria-pos/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/botilleria-pos/internal/interfaces/http"
	"github.com/jhoicas/botilleria-pos/pkg/config"
	"github.com/jhoicas/botilleria-pos/pkg/logger"
)

//go:generate swag init --dir ../../ --generalInfo cmd/api/main.go --output ../../docs --outputTypes json --parseInternal

const swaggerFile = "./docs/swagger.json"

// storage lo que la API necesita del backend de persistencia.
type storage interface {
	ledger.TxRunner
	statistics.SnapshotRunner
	httpRouter.Pinger
}

// @title        Botillería POS API
// @version      1.0
// @description  Catálogo, ventas, retiros y estadísticas diarias de la botillería.
// @BasePath     /
// @schemes      http https
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	ctx := context.Background()

	var (
		store storage
		repos repository.Repositories
	)
	switch cfg.Storage.Driver {
	case "memory":
		mem := memory.NewStore()
		store, repos = mem, mem.Repositories()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.AutoMigrate {
			if err := migrate(cfg.DB, log); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		var pool *pgxpool.Pool
		pool, err = postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		log.Info().Str("source", cfg.DB.DatabaseURLSource).Msg("conectado a PostgreSQL")
		store, repos = postgres.NewTxRunner(pool), postgres.NewRepositories(pool)
	}

	// Idempotencia: Redis si está configurado, si no en memoria (una sola instancia).
	var (
		idem      ledger.IdempotencyStore
		cachePing httpRouter.Pinger
	)
	if cfg.Redis.Addr != "" {
		rs, err := cache.NewRedisIdempotencyStore(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rs.Close()
		idem, cachePing = rs, rs
	} else {
		idem = cache.NewMemoryIdempotencyStore()
	}

	var rec *metrics.Recorder
	var ledgerRec ledger.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.NewRecorder()
		ledgerRec = rec
	}

	zl := log.Zerolog()
	productUC := catalog.NewProductUseCase(store, repos.Products, repos.Movements, zl)
	ledgerUC := ledger.NewLedgerUseCase(store, repos.Sales, repos.Withdrawals, ledgerRec, zl).
		WithIdempotency(idem, ledger.DefaultIdempotencyTTL).
		WithClock(func() time.Time { return time.Now().In(loc) })
	receiptUC := ledger.NewReceiptUseCase(repos.Sales, repos.Products, infrapdf.NewMarotoReceiptGenerator(loc), cfg.App.Name)
	statsUC := statistics.NewStatisticsUseCase(store, loc)

	if cfg.App.SeedOnEmpty {
		n, err := productUC.SeedIfEmpty(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("carga de productos base")
		}
		if n > 0 {
			log.Info().Int("productos", n).Msg("productos base cargados")
		}
	}

	app := httpRouter.NewApp(cfg.App.Name, zl, rec)

	// Swagger UI en http://localhost:<port>/docs, solo si existe docs/swagger.json.
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Botillería POS API",
		}))
	}

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: rutas de escritura sin autenticación")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		LedgerUC:     ledgerUC,
		ReceiptUC:    receiptUC,
		StatisticsUC: statsUC,
		DB:           store,
		Cache:        cachePing,
		Metrics:      rec,
		RateLimiter:  httpRouter.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		JWTSecret:    cfg.JWT.Secret,
		Log:          zl,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func migrate(db config.DBConfig, log *logger.Logger) error {
	m, err := migrations.New(db.ConnectionString(), log.Zerolog())
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
