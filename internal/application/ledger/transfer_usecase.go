package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

// TransferUseCase orquesta un traslado entre sucursales como una sola unidad
// atómica: crear el traslado, apendizar el OUT en origen y el IN en destino
// (ambos con el ID del traslado como referencia) y actualizar los dos saldos.
// Las cinco escrituras se confirman juntas o ninguna.
type TransferUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	branchRepo   repository.BranchRepository
	uomRepo      repository.UOMRepository
	transferRepo repository.StockTransferRepository
	movRepo      repository.StockMovementRepository
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	branchRepo repository.BranchRepository,
	uomRepo repository.UOMRepository,
	transferRepo repository.StockTransferRepository,
	movRepo repository.StockMovementRepository,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		branchRepo:   branchRepo,
		uomRepo:      uomRepo,
		transferRepo: transferRepo,
		movRepo:      movRepo,
	}
}

// TransferInput entrada para ejecutar un traslado.
type TransferInput struct {
	CompanyID    string
	UserID       string
	ItemID       string
	FromBranchID string
	ToBranchID   string
	UOMID        string
	Quantity     decimal.Decimal
	Notes        string
}

// TransferResult el traslado, sus dos movimientos y los saldos resultantes.
type TransferResult struct {
	Transfer    *entity.StockTransfer
	Movements   []*entity.StockMovement
	FromBalance *entity.StockBalance
	ToBalance   *entity.StockBalance
}

// Transfer ejecuta el traslado. Precondiciones: origen ≠ destino, cantidad
// positiva, artículo/sucursales/UOM existen y pertenecen al tenant, y el
// saldo origen cubre la cantidad (si no, ErrInsufficientStock sin escribir nada).
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.ItemID == "" || input.FromBranchID == "" || input.ToBranchID == "" || input.UOMID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.FromBranchID == input.ToBranchID {
		return nil, domain.ErrInvalidTransferRoute
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}
	fromBranch, _ := uc.branchRepo.GetByID(input.FromBranchID)
	toBranch, _ := uc.branchRepo.GetByID(input.ToBranchID)
	if fromBranch == nil || toBranch == nil ||
		fromBranch.CompanyID != input.CompanyID || toBranch.CompanyID != input.CompanyID {
		return nil, domain.ErrNotFound
	}
	uom, _ := uc.uomRepo.GetByID(input.UOMID)
	if uom == nil || uom.CompanyID != input.CompanyID {
		return nil, domain.ErrNotFound
	}

	var result *TransferResult
	err = runWithRetry(ctx, func() error {
		return uc.txRunner.RunTransfer(ctx, func(
			movRepo repository.StockMovementRepository,
			balanceRepo repository.StockBalanceRepository,
			transferRepo repository.StockTransferRepository,
		) error {
			res, err := applyTransfer(movRepo, balanceRepo, transferRepo, item, input, time.Now())
			if err != nil {
				return err
			}
			result = res
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyTransfer la secuencia de cinco escrituras dentro de la transacción.
func applyTransfer(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	transferRepo repository.StockTransferRepository,
	item *entity.Item,
	input TransferInput,
	now time.Time,
) (*TransferResult, error) {
	fromKey := entity.BalanceKey{ItemID: input.ItemID, BranchID: input.FromBranchID, UOMID: input.UOMID}
	toKey := entity.BalanceKey{ItemID: input.ItemID, BranchID: input.ToBranchID, UOMID: input.UOMID}

	// Bloquea primero el saldo origen: es el que puede quedarse corto.
	origin, err := balanceRepo.GetForUpdate(fromKey)
	if err != nil {
		return nil, err
	}
	if origin.Quantity.LessThan(input.Quantity) {
		return nil, domain.ErrInsufficientStock
	}
	dest, err := balanceRepo.GetForUpdate(toKey)
	if err != nil {
		return nil, err
	}

	// 1) Traslado. Nace PENDING y se marca COMPLETED dentro de la misma
	// transacción: no hay estado en tránsito observable.
	transfer := &entity.StockTransfer{
		ID:           uuid.New().String(),
		CompanyID:    input.CompanyID,
		ItemID:       input.ItemID,
		FromBranchID: input.FromBranchID,
		ToBranchID:   input.ToBranchID,
		UOMID:        input.UOMID,
		Quantity:     input.Quantity,
		Status:       entity.TransferPENDING,
		Notes:        input.Notes,
		CreatedAt:    now,
		CreatedBy:    input.UserID,
	}
	if err := transferRepo.Create(transfer); err != nil {
		return nil, err
	}

	unitCost := item.UnitCost

	// 2) OUT en origen.
	outMov := &entity.StockMovement{
		ID:            uuid.New().String(),
		CompanyID:     input.CompanyID,
		ItemID:        input.ItemID,
		BranchID:      input.FromBranchID,
		UOMID:         input.UOMID,
		Type:          entity.MovementTypeTRANSFER,
		ReferenceType: entity.ReferenceTRANSFER,
		ReferenceID:   transfer.ID,
		Quantity:      input.Quantity.Neg(),
		UnitCost:      unitCost,
		TotalCost:     input.Quantity.Neg().Mul(unitCost),
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	}
	if err := movRepo.Create(outMov); err != nil {
		return nil, err
	}

	// 3) IN en destino, mismo ReferenceID.
	inMov := &entity.StockMovement{
		ID:            uuid.New().String(),
		CompanyID:     input.CompanyID,
		ItemID:        input.ItemID,
		BranchID:      input.ToBranchID,
		UOMID:         input.UOMID,
		Type:          entity.MovementTypeTRANSFER,
		ReferenceType: entity.ReferenceTRANSFER,
		ReferenceID:   transfer.ID,
		Quantity:      input.Quantity,
		UnitCost:      unitCost,
		TotalCost:     input.Quantity.Mul(unitCost),
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	}
	if err := movRepo.Create(inMov); err != nil {
		return nil, err
	}

	// 4) y 5) Resta en origen, suma en destino.
	origin.Quantity = origin.Quantity.Sub(input.Quantity)
	origin.Recalculate()
	origin.UpdatedAt = now
	if err := balanceRepo.Upsert(origin); err != nil {
		return nil, err
	}
	dest.Quantity = dest.Quantity.Add(input.Quantity)
	dest.Recalculate()
	dest.UpdatedAt = now
	if err := balanceRepo.Upsert(dest); err != nil {
		return nil, err
	}

	if err := transferRepo.UpdateStatus(transfer.ID, entity.TransferCOMPLETED); err != nil {
		return nil, err
	}
	transfer.Status = entity.TransferCOMPLETED

	return &TransferResult{
		Transfer:    transfer,
		Movements:   []*entity.StockMovement{outMov, inMov},
		FromBalance: origin,
		ToBalance:   dest,
	}, nil
}

// GetTransfer devuelve un traslado con sus dos movimientos.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, companyID, id string) (*entity.StockTransfer, []*entity.StockMovement, error) {
	transfer, err := uc.transferRepo.GetByID(id)
	if err != nil || transfer == nil {
		return nil, nil, domain.ErrNotFound
	}
	if transfer.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}
	movs, err := uc.movRepo.ListByReference(id)
	if err != nil {
		return nil, nil, err
	}
	return transfer, movs, nil
}

// ListTransfers lista los traslados de la empresa.
func (uc *TransferUseCase) ListTransfers(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockTransfer, error) {
	return uc.transferRepo.ListByCompany(companyID, limit, offset)
}
