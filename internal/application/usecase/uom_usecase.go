package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/ledger-api/internal/application/dto"
	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

// UOMUseCase casos de uso CRUD para unidades de medida.
type UOMUseCase struct {
	repo repository.UOMRepository
}

// NewUOMUseCase construye el caso de uso.
func NewUOMUseCase(repo repository.UOMRepository) *UOMUseCase {
	return &UOMUseCase{repo: repo}
}

// Create crea una unidad de medida. Código único por empresa; factor de
// conversión por defecto 1.
func (uc *UOMUseCase) Create(companyID string, in dto.CreateUOMRequest) (*dto.UOMResponse, error) {
	existing, _ := uc.repo.GetByCompanyAndCode(companyID, in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	factor := in.ConversionFactor
	if factor.LessThanOrEqual(decimal.Zero) {
		factor = decimal.NewFromInt(1)
	}
	now := time.Now()
	uom := &entity.UOM{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		Code:             in.Code,
		Name:             in.Name,
		ConversionFactor: factor,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(uom); err != nil {
		return nil, err
	}
	return toUOMResponse(uom), nil
}

// GetByID obtiene una unidad de medida por ID validando tenencia.
func (uc *UOMUseCase) GetByID(companyID, id string) (*dto.UOMResponse, error) {
	uom, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if uom == nil {
		return nil, nil
	}
	if uom.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toUOMResponse(uom), nil
}

// Update actualiza una unidad de medida.
func (uc *UOMUseCase) Update(companyID, id string, in dto.UpdateUOMRequest) (*dto.UOMResponse, error) {
	uom, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if uom == nil {
		return nil, nil
	}
	if uom.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		uom.Name = *in.Name
	}
	if in.ConversionFactor != nil && in.ConversionFactor.GreaterThan(decimal.Zero) {
		uom.ConversionFactor = *in.ConversionFactor
	}
	if in.Active != nil {
		uom.Active = *in.Active
	}
	uom.UpdatedAt = time.Now()
	if err := uc.repo.Update(uom); err != nil {
		return nil, err
	}
	return toUOMResponse(uom), nil
}

// List lista unidades de medida por empresa con paginación.
func (uc *UOMUseCase) List(companyID string, limit, offset int) (*dto.UOMListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UOMResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUOMResponse(u))
	}
	return &dto.UOMListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toUOMResponse(u *entity.UOM) *dto.UOMResponse {
	if u == nil {
		return nil
	}
	return &dto.UOMResponse{
		ID:               u.ID,
		CompanyID:        u.CompanyID,
		Code:             u.Code,
		Name:             u.Name,
		ConversionFactor: u.ConversionFactor,
		Active:           u.Active,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
