package batch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
	domledger "github.com/invorya/ledger-api/internal/domain/ledger"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

// defaultExpiryWindowDays ventana por defecto de la alerta de vencimiento.
const defaultExpiryWindowDays = 30

// maxTxAttempts reintentos acotados ante fallas de serialización.
const maxTxAttempts = 3

// UseCase implementa el sub-libro de lotes: creación con IN sintético,
// movimientos con chequeo de cantidad derivada, trazabilidad de un salto,
// estado de calidad y alertas de vencimiento.
type UseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	branchRepo   repository.BranchRepository
	batchRepo    repository.BatchRepository
	batchMovRepo repository.BatchMovementRepository
}

// NewUseCase construye el caso de uso. batchRepo y batchMovRepo son los
// adaptadores atados al pool, usados solo para lecturas.
func NewUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	branchRepo repository.BranchRepository,
	batchRepo repository.BatchRepository,
	batchMovRepo repository.BatchMovementRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		branchRepo:   branchRepo,
		batchRepo:    batchRepo,
		batchMovRepo: batchMovRepo,
	}
}

// CreateBatchInput entrada para crear un lote.
type CreateBatchInput struct {
	CompanyID      string
	UserID         string
	ItemID         string
	BranchID       string
	UOMID          string
	BatchNumber    string
	LotNumber      string
	SupplierBatch  string
	ProductionDate *time.Time
	ExpiryDate     *time.Time
	Quantity       decimal.Decimal
	Notes          string
}

// CreateBatch crea el lote y su movimiento IN sintético (referencia
// PRODUCTION, cantidad = cantidad inicial) en una sola transacción, de modo
// que la cantidad derivada del lote es válida desde t=0.
// El artículo debe estar marcado como batch-tracked en datos maestros.
func (uc *UseCase) CreateBatch(ctx context.Context, input CreateBatchInput) (*entity.Batch, error) {
	if input.ItemID == "" || input.BranchID == "" || input.UOMID == "" || input.BatchNumber == "" {
		return nil, domain.ErrInvalidInput
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
	if !item.IsBatchTracked {
		return nil, domain.ErrItemNotBatchTracked
	}
	branch, _ := uc.branchRepo.GetByID(input.BranchID)
	if branch == nil || branch.CompanyID != input.CompanyID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	batch := &entity.Batch{
		ID:             uuid.New().String(),
		CompanyID:      input.CompanyID,
		ItemID:         input.ItemID,
		BranchID:       input.BranchID,
		BatchNumber:    input.BatchNumber,
		LotNumber:      input.LotNumber,
		SupplierBatch:  input.SupplierBatch,
		ProductionDate: input.ProductionDate,
		ExpiryDate:     input.ExpiryDate,
		Quantity:       input.Quantity,
		UOMID:          input.UOMID,
		QualityStatus:  entity.QualityPENDING,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      input.UserID,
	}

	err = uc.txRunner.RunBatch(ctx, func(
		batchRepo repository.BatchRepository,
		batchMovRepo repository.BatchMovementRepository,
	) error {
		if err := batchRepo.Create(batch); err != nil {
			// El adaptador traduce la violación de unicidad de
			// (company, item, batch_number).
			return err
		}
		seed := &entity.BatchMovement{
			ID:            uuid.New().String(),
			BatchID:       batch.ID,
			Type:          entity.MovementTypeIN,
			Quantity:      input.Quantity,
			ReferenceType: entity.ReferencePRODUCTION,
			CreatedAt:     now,
			CreatedBy:     input.UserID,
		}
		return batchMovRepo.Create(seed)
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// MovementInput entrada para registrar un movimiento de lote.
// Quantity es magnitud positiva; el signo lo pone el tipo.
type MovementInput struct {
	CompanyID     string
	UserID        string
	BatchID       string
	Type          string
	Quantity      decimal.Decimal
	ReferenceType string
	ReferenceID   string
	FromBranchID  string
	ToBranchID    string
}

// MovementResult el movimiento creado y la cantidad derivada resultante.
type MovementResult struct {
	Movement        *entity.BatchMovement
	CurrentQuantity decimal.Decimal
}

// RecordMovement apendiza un movimiento al sub-libro del lote. Para OUT,
// la cantidad vigente se deriva plegando todos los movimientos previos
// dentro de la misma transacción que bloquea la fila del lote; un OUT que
// exceda la cantidad derivada se rechaza sin escribir nada. Un TRANSFER
// reubica el lote entre sucursales y deja la cantidad derivada intacta.
func (uc *UseCase) RecordMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if !entity.ValidMovementType(input.Type) || !entity.ValidReferenceType(input.ReferenceType) {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.Type == entity.MovementTypeTRANSFER &&
		(input.FromBranchID == "" || input.ToBranchID == "" || input.FromBranchID == input.ToBranchID) {
		return nil, domain.ErrInvalidTransferRoute
	}

	// Tenencia fuera de la transacción; el lote se relee con bloqueo adentro.
	batch, err := uc.batchRepo.GetByID(input.BatchID)
	if err != nil || batch == nil {
		return nil, domain.ErrNotFound
	}
	if batch.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}

	var result *MovementResult
	run := func() error {
		return uc.txRunner.RunBatch(ctx, func(
			batchRepo repository.BatchRepository,
			batchMovRepo repository.BatchMovementRepository,
		) error {
			// Serializa escritores concurrentes del mismo lote.
			if _, err := batchRepo.GetForUpdate(input.BatchID); err != nil {
				return err
			}
			movs, err := batchMovRepo.ListByBatch(input.BatchID)
			if err != nil {
				return err
			}
			current := domledger.FoldQuantity(movs)
			delta := domledger.SignedDelta(input.Type, input.Quantity)
			// Un TRANSFER no altera la cantidad del lote, pero tampoco
			// puede reubicar más de lo que el lote tiene.
			consumes := delta.IsNegative() || input.Type == entity.MovementTypeTRANSFER
			if consumes && current.LessThan(input.Quantity) {
				return domain.ErrInsufficientBatchQuantity
			}
			mov := &entity.BatchMovement{
				ID:            uuid.New().String(),
				BatchID:       input.BatchID,
				Type:          input.Type,
				Quantity:      delta,
				FromBranchID:  input.FromBranchID,
				ToBranchID:    input.ToBranchID,
				ReferenceType: input.ReferenceType,
				ReferenceID:   input.ReferenceID,
				CreatedAt:     time.Now(),
				CreatedBy:     input.UserID,
			}
			if err := batchMovRepo.Create(mov); err != nil {
				return err
			}
			result = &MovementResult{Movement: mov, CurrentQuantity: domledger.FoldQuantity(append(movs, mov))}
			return nil
		})
	}
	err = run()
	for attempt := 1; errors.Is(err, domain.ErrTxConflict) && attempt < maxTxAttempts; attempt++ {
		err = run()
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Traceability trazabilidad de un lote: movimientos en orden de creación,
// cantidad derivada, lote padre (mismo artículo, batchNumber == SupplierBatch)
// y lotes hijos (mismo artículo, SupplierBatch == batchNumber). Un solo salto
// en cada dirección; el enlace es por coincidencia de números de lote, sin
// tabla de aristas.
type Traceability struct {
	Batch           *entity.Batch
	CurrentQuantity decimal.Decimal
	Movements       []*entity.BatchMovement
	Upstream        *entity.Batch
	Downstream      []*entity.Batch
}

// GetTraceability arma el reporte de trazabilidad del lote.
func (uc *UseCase) GetTraceability(ctx context.Context, companyID, batchID string) (*Traceability, error) {
	batch, err := uc.batchRepo.GetByID(batchID)
	if err != nil || batch == nil {
		return nil, domain.ErrNotFound
	}
	if batch.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	movs, err := uc.batchMovRepo.ListByBatch(batchID)
	if err != nil {
		return nil, err
	}

	var upstream *entity.Batch
	if batch.SupplierBatch != "" {
		upstream, err = uc.batchRepo.GetByNumber(companyID, batch.ItemID, batch.SupplierBatch)
		if err != nil {
			return nil, err
		}
	}
	downstream, err := uc.batchRepo.ListBySupplierBatch(companyID, batch.ItemID, batch.BatchNumber)
	if err != nil {
		return nil, err
	}

	return &Traceability{
		Batch:           batch,
		CurrentQuantity: domledger.FoldQuantity(movs),
		Movements:       movs,
		Upstream:        upstream,
		Downstream:      downstream,
	}, nil
}

// UpdateQuality cambia el estado de calidad y las notas del lote. No hay
// grafo de transiciones: cualquier estado puede seguir a cualquier otro y el
// cambio es independiente de los movimientos de cantidad.
func (uc *UseCase) UpdateQuality(ctx context.Context, companyID, batchID, status, notes string) (*entity.Batch, error) {
	if !entity.ValidQualityStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	batch, err := uc.batchRepo.GetByID(batchID)
	if err != nil || batch == nil {
		return nil, domain.ErrNotFound
	}
	if batch.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if err := uc.batchRepo.UpdateQuality(batchID, status, notes); err != nil {
		return nil, err
	}
	batch.QualityStatus = status
	batch.Notes = notes
	return batch, nil
}

// ExpiryAlert lote dentro de la ventana de alerta de vencimiento.
type ExpiryAlert struct {
	Batch           *entity.Batch
	DaysUntilExpiry int
	IsExpired       bool
}

// ExpiryAlerts devuelve los lotes con now < ExpiryDate <= now + daysAhead
// días (default 30). isExpired se calcula al consultar, nunca se almacena.
func (uc *UseCase) ExpiryAlerts(ctx context.Context, companyID string, daysAhead int) ([]ExpiryAlert, error) {
	if daysAhead <= 0 {
		daysAhead = defaultExpiryWindowDays
	}
	now := time.Now()
	limit := now.AddDate(0, 0, daysAhead)

	batches, err := uc.batchRepo.ListExpiringBefore(companyID, limit)
	if err != nil {
		return nil, err
	}
	alerts := make([]ExpiryAlert, 0, len(batches))
	for _, b := range batches {
		if !b.ExpiresWithin(now, daysAhead) {
			continue
		}
		alerts = append(alerts, ExpiryAlert{
			Batch:           b,
			DaysUntilExpiry: b.DaysUntilExpiry(now),
			IsExpired:       b.IsExpired(now),
		})
	}
	return alerts, nil
}

// GetBatch devuelve un lote validando tenencia.
func (uc *UseCase) GetBatch(ctx context.Context, companyID, batchID string) (*entity.Batch, error) {
	batch, err := uc.batchRepo.GetByID(batchID)
	if err != nil || batch == nil {
		return nil, domain.ErrNotFound
	}
	if batch.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return batch, nil
}

// ListByItem lista los lotes de un artículo.
func (uc *UseCase) ListByItem(ctx context.Context, companyID, itemID string, limit, offset int) ([]*entity.Batch, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return uc.batchRepo.ListByItem(itemID, limit, offset)
}
