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

// ItemUseCase casos de uso CRUD para artículos. El costo promedio no se
// edita por aquí: lo mantiene el libro mayor con cada entrada.
type ItemUseCase struct {
	repo    repository.ItemRepository
	uomRepo repository.UOMRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, uomRepo repository.UOMRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo, uomRepo: uomRepo}
}

// Create crea un artículo. Devuelve domain.ErrDuplicate si el SKU ya existe
// en la empresa y domain.ErrNotFound si la UOM base no resuelve.
func (uc *ItemUseCase) Create(companyID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	existing, _ := uc.repo.GetByCompanyAndSKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	uom, err := uc.uomRepo.GetByID(in.BaseUOMID)
	if err != nil || uom == nil || uom.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	item := &entity.Item{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		SKU:            in.SKU,
		Name:           in.Name,
		Description:    in.Description,
		Category:       in.Category,
		UnitCost:       decimal.Zero,
		ReorderPoint:   in.ReorderPoint,
		BaseUOMID:      in.BaseUOMID,
		IsBatchTracked: in.IsBatchTracked,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo por ID validando tenencia.
func (uc *ItemUseCase) GetByID(companyID, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toItemResponse(item), nil
}

// Update actualiza un artículo (sin Cost: lo mantiene el libro mayor).
func (uc *ItemUseCase) Update(companyID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.ReorderPoint != nil {
		item.ReorderPoint = *in.ReorderPoint
	}
	if in.IsBatchTracked != nil {
		item.IsBatchTracked = *in.IsBatchTracked
	}
	if in.Active != nil {
		item.Active = *in.Active
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista artículos por empresa con paginación.
func (uc *ItemUseCase) List(companyID string, limit, offset int) (*dto.ItemListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:             it.ID,
		CompanyID:      it.CompanyID,
		SKU:            it.SKU,
		Name:           it.Name,
		Description:    it.Description,
		Category:       it.Category,
		UnitCost:       it.UnitCost,
		ReorderPoint:   it.ReorderPoint,
		BaseUOMID:      it.BaseUOMID,
		IsBatchTracked: it.IsBatchTracked,
		Active:         it.Active,
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}
