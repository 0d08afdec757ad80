package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
)

// StatisticsResponse salida de GET /api/estadisticas.
type StatisticsResponse struct {
	Fecha              string          `json:"fecha"`
	VentasHoy          decimal.Decimal `json:"ventas_hoy"`
	RetirosHoy         decimal.Decimal `json:"retiros_hoy"`
	UtilidadNeta       decimal.Decimal `json:"utilidad_neta"`
	TotalProductos     int             `json:"total_productos"`
	ProductosBajoStock int             `json:"productos_bajo_stock"`
	UltimaVenta        *time.Time      `json:"ultima_venta"`
}

func NewStatisticsResponse(s *entity.DailySummary) StatisticsResponse {
	return StatisticsResponse{
		Fecha:              s.Date.Format(time.DateOnly),
		VentasHoy:          s.SalesToday,
		RetirosHoy:         s.WithdrawalsToday,
		UtilidadNeta:       s.NetResult,
		TotalProductos:     s.ActiveProductCount,
		ProductosBajoStock: s.LowStockCount,
		UltimaVenta:        s.LastSaleAt,
	}
}
