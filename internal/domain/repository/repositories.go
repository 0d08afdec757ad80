package repository

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Products    ProductRepository
	Sales       SaleRepository
	Withdrawals WithdrawalRepository
	Movements   StockMovementRepository
	Statistics  StatisticsRepository
}
