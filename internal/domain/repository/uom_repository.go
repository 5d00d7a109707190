package repository

import "github.com/invorya/ledger-api/internal/domain/entity"

// UOMRepository define el puerto de persistencia para unidades de medida (DIP).
type UOMRepository interface {
	Create(uom *entity.UOM) error
	GetByID(id string) (*entity.UOM, error)
	GetByCompanyAndCode(companyID, code string) (*entity.UOM, error)
	Update(uom *entity.UOM) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.UOM, error)
	Delete(id string) error
}
