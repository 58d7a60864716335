package repository

// Repos agrupa los repositorios atados a una misma transacción (unidad de trabajo).
type Repos struct {
	Stock         StockRepository
	Changes       InventoryChangeRepository
	Transfers     TransferRepository
	Sales         SaleRepository
	Locations     LocationRepository
	Users         UserRepository
	Products      ProductRepository
	Incidents     IncidentRepository
	Notifications NotificationRepository
}
