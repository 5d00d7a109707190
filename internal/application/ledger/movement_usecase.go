package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
	domledger "github.com/invorya/ledger-api/internal/domain/ledger"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

// MovementUseCase registra movimientos del libro mayor de forma transaccional
// (IN, OUT, ADJUSTMENT) con bloqueo de fila (SELECT FOR UPDATE) sobre el saldo
// de la llave (item, sucursal, UOM) y Commit/Rollback.
//
// El orden de validación importa: el chequeo de suficiencia ocurre ANTES de
// escribir el movimiento. Un OUT rechazado no deja registro ni cambia el saldo.
type MovementUseCase struct {
	txRunner    TxRunner
	itemRepo    repository.ItemRepository
	branchRepo  repository.BranchRepository
	uomRepo     repository.UOMRepository
	movRepo     repository.StockMovementRepository
	balanceRepo repository.StockBalanceRepository
}

// NewMovementUseCase construye el caso de uso. movRepo y balanceRepo son los
// adaptadores atados al pool (solo lecturas; las escrituras van por txRunner).
func NewMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	branchRepo repository.BranchRepository,
	uomRepo repository.UOMRepository,
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:    txRunner,
		itemRepo:    itemRepo,
		branchRepo:  branchRepo,
		uomRepo:     uomRepo,
		movRepo:     movRepo,
		balanceRepo: balanceRepo,
	}
}

// MovementInput entrada para registrar un movimiento.
// Quantity es siempre magnitud positiva; el signo lo pone el tipo.
// UnitCost es obligatorio en IN (actualiza el costo promedio del artículo).
type MovementInput struct {
	CompanyID     string
	UserID        string
	ItemID        string
	BranchID      string
	UOMID         string
	Type          string
	ReferenceType string
	ReferenceID   string
	Quantity      decimal.Decimal
	UnitCost      *decimal.Decimal
	BatchNumber   string
	LotNumber     string
	ExpiryDate    *time.Time
}

// MovementResult el movimiento creado y el saldo resultante de la llave.
type MovementResult struct {
	Movement *entity.StockMovement
	Balance  *entity.StockBalance
}

// RegisterMovement valida la entrada, resuelve los datos maestros y ejecuta
// la unidad de trabajo transaccional. Reintenta de forma acotada ante
// conflictos de serialización de la BD.
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	switch input.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT, entity.MovementTypeADJUSTMENT:
	case entity.MovementTypeTRANSFER:
		// Los TRANSFER solo los escribe el orquestador de traslados.
		return nil, domain.ErrInvalidInput
	default:
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidReferenceType(input.ReferenceType) {
		return nil, domain.ErrInvalidInput
	}
	if input.ItemID == "" || input.BranchID == "" || input.UOMID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.Type == entity.MovementTypeIN && (input.UnitCost == nil || input.UnitCost.LessThan(decimal.Zero)) {
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.resolveItem(input.CompanyID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if err := uc.resolveBranch(input.CompanyID, input.BranchID); err != nil {
		return nil, err
	}
	if err := uc.resolveUOM(input.CompanyID, input.UOMID); err != nil {
		return nil, err
	}

	var result *MovementResult
	err = runWithRetry(ctx, func() error {
		return uc.txRunner.Run(ctx, func(
			movRepo repository.StockMovementRepository,
			balanceRepo repository.StockBalanceRepository,
			itemRepo repository.ItemRepository,
		) error {
			res, err := applyMovement(movRepo, balanceRepo, itemRepo, item, input, time.Now())
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

// applyMovement ejecuta la unidad de trabajo dentro de la transacción:
// bloquea el saldo, verifica suficiencia para OUT, actualiza la proyección y
// recién entonces apendiza el movimiento.
func applyMovement(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	itemRepo repository.ItemRepository,
	item *entity.Item,
	input MovementInput,
	now time.Time,
) (*MovementResult, error) {
	key := entity.BalanceKey{ItemID: input.ItemID, BranchID: input.BranchID, UOMID: input.UOMID}

	// Bloquea la fila del saldo (SELECT FOR UPDATE): dos OUT concurrentes
	// sobre la misma llave se serializan aquí y no pueden leer el mismo
	// "saldo actual" (lost update).
	balance, err := balanceRepo.GetForUpdate(key)
	if err != nil {
		return nil, err
	}

	delta := domledger.SignedDelta(input.Type, input.Quantity)
	if input.Type == entity.MovementTypeOUT && balance.Quantity.LessThan(input.Quantity) {
		return nil, domain.ErrInsufficientStock
	}

	unitCost := item.UnitCost
	if input.Type == entity.MovementTypeIN {
		unitCost = *input.UnitCost
		newCost := domledger.AverageCost(balance.Quantity, item.UnitCost, input.Quantity, unitCost)
		if err := itemRepo.UpdateCost(input.ItemID, newCost); err != nil {
			return nil, err
		}
	}

	balance.Quantity = balance.Quantity.Add(delta)
	balance.Recalculate()
	balance.UpdatedAt = now
	if err := balanceRepo.Upsert(balance); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		CompanyID:     input.CompanyID,
		ItemID:        input.ItemID,
		BranchID:      input.BranchID,
		UOMID:         input.UOMID,
		Type:          input.Type,
		ReferenceType: input.ReferenceType,
		ReferenceID:   input.ReferenceID,
		Quantity:      delta,
		UnitCost:      unitCost,
		TotalCost:     delta.Mul(unitCost),
		BatchNumber:   input.BatchNumber,
		LotNumber:     input.LotNumber,
		ExpiryDate:    input.ExpiryDate,
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return &MovementResult{Movement: mov, Balance: balance}, nil
}

// GetBalance devuelve el saldo actual de una llave (cero si nunca se movió).
func (uc *MovementUseCase) GetBalance(ctx context.Context, companyID string, key entity.BalanceKey) (*entity.StockBalance, error) {
	if _, err := uc.resolveItem(companyID, key.ItemID); err != nil {
		return nil, err
	}
	return uc.balanceRepo.Get(key)
}

// ListByItem devuelve los movimientos de un artículo (validando tenencia).
func (uc *MovementUseCase) ListByItem(ctx context.Context, companyID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if _, err := uc.resolveItem(companyID, itemID); err != nil {
		return nil, err
	}
	return uc.movRepo.ListByItem(itemID, from, to, limit, offset)
}

// ListByBranch devuelve los movimientos de una sucursal (validando tenencia).
func (uc *MovementUseCase) ListByBranch(ctx context.Context, companyID, branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if err := uc.resolveBranch(companyID, branchID); err != nil {
		return nil, err
	}
	return uc.movRepo.ListByBranch(branchID, from, to, limit, offset)
}

// ListBalancesByBranch devuelve los saldos de una sucursal.
func (uc *MovementUseCase) ListBalancesByBranch(ctx context.Context, companyID, branchID string, limit, offset int) ([]*entity.StockBalance, error) {
	if err := uc.resolveBranch(companyID, branchID); err != nil {
		return nil, err
	}
	return uc.balanceRepo.ListByBranch(branchID, limit, offset)
}

func (uc *MovementUseCase) resolveItem(companyID, itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

func (uc *MovementUseCase) resolveBranch(companyID, branchID string) error {
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil || branch == nil {
		return domain.ErrNotFound
	}
	if branch.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}

func (uc *MovementUseCase) resolveUOM(companyID, uomID string) error {
	uom, err := uc.uomRepo.GetByID(uomID)
	if err != nil || uom == nil {
		return domain.ErrNotFound
	}
	if uom.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}
