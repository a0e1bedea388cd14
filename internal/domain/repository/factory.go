package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	HealthCheck(ctx context.Context) error
	Orders() OrderRepository
	Till() TillRepository
	Reports() ReportArchive
	Products() ProductRepository
	Printers() PrinterRepository
	Users() UserRepository
}
