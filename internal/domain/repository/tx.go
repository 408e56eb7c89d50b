package repository

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Movements   MovementRepository
	Stock       StockRepository
	Solicitudes SolicitudRepository
	Users       UserRepository
	Permissions PermissionRepository
}
