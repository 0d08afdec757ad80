package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/botilleria-pos/internal/application/catalog"
	"github.com/jhoicas/botilleria-pos/internal/application/ledger"
	"github.com/jhoicas/botilleria-pos/internal/application/statistics"
	"github.com/jhoicas/botilleria-pos/internal/infrastructure/metrics"
	"github.com/jhoicas/botilleria-pos/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *catalog.ProductUseCase
	LedgerUC     *ledger.LedgerUseCase
	ReceiptUC    *ledger.ReceiptUseCase // opcional
	StatisticsUC *statistics.StatisticsUseCase
	DB           Pinger
	Cache        Pinger            // opcional
	Metrics      *metrics.Recorder // opcional; habilita /metrics
	RateLimiter  *RateLimiter      // opcional; aplica a las rutas de escritura
	JWTSecret    string            // vacío: escrituras sin autenticación
	Log          zerolog.Logger
}

// NewApp crea la aplicación Fiber con el manejador de errores y los middlewares globales.
func NewApp(name string, log zerolog.Logger, m *metrics.Recorder) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ErrorHandler: ErrorHandler(log),
	})
	var obs requestObserver
	if m != nil {
		obs = m
	}
	app.Use(RequestLogger(log, obs))
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", NewHealthHandler(deps.DB, deps.Cache, deps.Log).Check)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")

	// writers devuelve la cadena de middlewares de una ruta de escritura.
	writers := func(roles ...string) []fiber.Handler {
		hs := []fiber.Handler{deps.RateLimiter.Handler()}
		if deps.JWTSecret != "" {
			hs = append(hs, AuthMiddleware(deps.JWTSecret), RequireRole(roles...))
		}
		return hs
	}
	with := func(mw []fiber.Handler, h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, mw...), h)
	}
	admin := writers(jwt.RoleAdmin)
	caja := writers(jwt.RoleAdmin, jwt.RoleCajero)

	// Productos
	products := api.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC, deps.LedgerUC, deps.Log)
	products.Get("/", productHandler.List)
	products.Get("/buscar", productHandler.Search)
	products.Get("/reposicion", productHandler.Replenishment)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/movimientos", productHandler.Movements)
	products.Post("/", with(admin, productHandler.Create)...)
	products.Put("/:id", with(admin, productHandler.Update)...)
	products.Delete("/:id", with(admin, productHandler.Delete)...)
	products.Post("/:id/reposicion", with(admin, productHandler.Restock)...)

	// Ventas
	sales := api.Group("/ventas")
	saleHandler := NewSaleHandler(deps.LedgerUC, deps.ReceiptUC, deps.Log)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/boleta", saleHandler.Receipt)
	sales.Post("/", with(caja, saleHandler.Create)...)

	// Retiros
	withdrawals := api.Group("/retiros")
	withdrawalHandler := NewWithdrawalHandler(deps.LedgerUC, deps.Log)
	withdrawals.Get("/", withdrawalHandler.List)
	withdrawals.Get("/:id", withdrawalHandler.GetByID)
	withdrawals.Post("/", with(caja, withdrawalHandler.Create)...)

	// Estadísticas
	api.Get("/estadisticas", NewStatisticsHandler(deps.StatisticsUC, deps.Log).Get)
}
