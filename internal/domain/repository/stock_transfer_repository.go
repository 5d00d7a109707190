package repository

import "github.com/invorya/ledger-api/internal/domain/entity"

// StockTransferRepository define el puerto de persistencia para traslados.
type StockTransferRepository interface {
	Create(transfer *entity.StockTransfer) error
	GetByID(id string) (*entity.StockTransfer, error)
	UpdateStatus(id, status string) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.StockTransfer, error)
}
