package batch_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/ledger-api/internal/application/batch"
	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

const (
	testCompanyID = "co-1"
	otherCompany  = "co-2"
	testItemID    = "itm-lote"
	plainItemID   = "itm-simple"
	branchA       = "br-1"
	branchB       = "br-2"
	testUOMID     = "uom-1"
	testUserID    = "usr-1"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// batchStore estado en memoria del sub-libro de lotes.
type batchStore struct {
	batches  map[string]entity.Batch
	movs     []*entity.BatchMovement
	items    map[string]entity.Item
	branches map[string]entity.Branch
}

func newBatchStore() *batchStore {
	s := &batchStore{
		batches:  make(map[string]entity.Batch),
		items:    make(map[string]entity.Item),
		branches: make(map[string]entity.Branch),
	}
	s.items[testItemID] = entity.Item{
		ID: testItemID, CompanyID: testCompanyID, SKU: "SKU-L1",
		Name: "Harina de trigo", IsBatchTracked: true, Active: true,
	}
	s.items[plainItemID] = entity.Item{
		ID: plainItemID, CompanyID: testCompanyID, SKU: "SKU-P1",
		Name: "Tornillo suelto", IsBatchTracked: false, Active: true,
	}
	s.branches[branchA] = entity.Branch{ID: branchA, CompanyID: testCompanyID, Active: true}
	s.branches[branchB] = entity.Branch{ID: branchB, CompanyID: testCompanyID, Active: true}
	return s
}

// fakeBatchTxRunner ejecuta la función con repos atados al store y restaura
// el estado si falla (rollback).
type fakeBatchTxRunner struct{ s *batchStore }

func (r *fakeBatchTxRunner) RunBatch(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	batchMovRepo repository.BatchMovementRepository,
) error) error {
	movLen := len(r.s.movs)
	snap := make(map[string]entity.Batch, len(r.s.batches))
	for k, v := range r.s.batches {
		snap[k] = v
	}
	err := fn(&fakeBatchRepo{s: r.s}, &fakeBatchMovRepo{s: r.s})
	if err != nil {
		r.s.movs = r.s.movs[:movLen]
		r.s.batches = snap
	}
	return err
}

type fakeBatchRepo struct{ s *batchStore }

func (f *fakeBatchRepo) Create(b *entity.Batch) error {
	for _, existing := range f.s.batches {
		if existing.CompanyID == b.CompanyID && existing.ItemID == b.ItemID &&
			existing.BatchNumber == b.BatchNumber {
			return domain.ErrDuplicateBatchNumber
		}
	}
	f.s.batches[b.ID] = *b
	return nil
}

func (f *fakeBatchRepo) GetByID(id string) (*entity.Batch, error) {
	if b, ok := f.s.batches[id]; ok {
		cp := b
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeBatchRepo) GetForUpdate(id string) (*entity.Batch, error) {
	return f.GetByID(id)
}

func (f *fakeBatchRepo) GetByNumber(companyID, itemID, batchNumber string) (*entity.Batch, error) {
	for _, b := range f.s.batches {
		if b.CompanyID == companyID && b.ItemID == itemID && b.BatchNumber == batchNumber {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBatchRepo) ListBySupplierBatch(companyID, itemID, batchNumber string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range f.s.batches {
		if b.CompanyID == companyID && b.ItemID == itemID && b.SupplierBatch == batchNumber {
			cp := b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBatchRepo) ListByItem(itemID string, limit, offset int) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range f.s.batches {
		if b.ItemID == itemID {
			cp := b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBatchRepo) UpdateQuality(id, qualityStatus, notes string) error {
	b, ok := f.s.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.QualityStatus = qualityStatus
	b.Notes = notes
	f.s.batches[id] = b
	return nil
}

func (f *fakeBatchRepo) ListExpiringBefore(companyID string, before time.Time) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range f.s.batches {
		if b.CompanyID == companyID && b.ExpiryDate != nil && !b.ExpiryDate.After(before) {
			cp := b
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeBatchMovRepo struct{ s *batchStore }

func (f *fakeBatchMovRepo) Create(m *entity.BatchMovement) error {
	cp := *m
	f.s.movs = append(f.s.movs, &cp)
	return nil
}

func (f *fakeBatchMovRepo) ListByBatch(batchID string) ([]*entity.BatchMovement, error) {
	var out []*entity.BatchMovement
	for _, m := range f.s.movs {
		if m.BatchID == batchID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeItemRepo / fakeBranchRepo solo lecturas; el caso de uso de lotes no
// muta datos maestros.
type fakeItemRepo struct{ s *batchStore }

func (f *fakeItemRepo) Create(item *entity.Item) error { return nil }
func (f *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	if it, ok := f.s.items[id]; ok {
		cp := it
		return &cp, nil
	}
	return nil, nil
}
func (f *fakeItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error) {
	return nil, nil
}
func (f *fakeItemRepo) Update(item *entity.Item) error                       { return nil }
func (f *fakeItemRepo) UpdateCost(itemID string, cost decimal.Decimal) error { return nil }
func (f *fakeItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	return nil, nil
}
func (f *fakeItemRepo) Delete(id string) error { return nil }

type fakeBranchRepo struct{ s *batchStore }

func (f *fakeBranchRepo) Create(b *entity.Branch) error { return nil }
func (f *fakeBranchRepo) GetByID(id string) (*entity.Branch, error) {
	if b, ok := f.s.branches[id]; ok {
		cp := b
		return &cp, nil
	}
	return nil, nil
}
func (f *fakeBranchRepo) Update(b *entity.Branch) error { return nil }
func (f *fakeBranchRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Branch, error) {
	return nil, nil
}
func (f *fakeBranchRepo) Delete(id string) error { return nil }

func newBatchFixture() (*batch.UseCase, *batchStore) {
	store := newBatchStore()
	uc := batch.NewUseCase(
		&fakeBatchTxRunner{s: store},
		&fakeItemRepo{s: store},
		&fakeBranchRepo{s: store},
		&fakeBatchRepo{s: store},
		&fakeBatchMovRepo{s: store},
	)
	return uc, store
}

func createInput(batchNumber, qty string) batch.CreateBatchInput {
	return batch.CreateBatchInput{
		CompanyID:   testCompanyID,
		UserID:      testUserID,
		ItemID:      testItemID,
		BranchID:    branchA,
		UOMID:       testUOMID,
		BatchNumber: batchNumber,
		Quantity:    dec(qty),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateBatch
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBatch_EmiteINSintetico(t *testing.T) {
	uc, store := newBatchFixture()

	b, err := uc.CreateBatch(context.Background(), createInput("LOTE-001", "500"))
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Equal(t, entity.QualityPENDING, b.QualityStatus, "el lote nace PENDING")

	// La creación deja exactamente un movimiento: el IN sintético con
	// referencia PRODUCTION y la cantidad inicial completa.
	require.Len(t, store.movs, 1)
	seed := store.movs[0]
	assert.Equal(t, b.ID, seed.BatchID)
	assert.Equal(t, entity.MovementTypeIN, seed.Type)
	assert.Equal(t, entity.ReferencePRODUCTION, seed.ReferenceType)
	assert.True(t, seed.Quantity.Equal(dec("500")))
}

func TestCreateBatch_NumeroDuplicadoRechazado(t *testing.T) {
	uc, store := newBatchFixture()
	ctx := context.Background()

	_, err := uc.CreateBatch(ctx, createInput("LOTE-001", "500"))
	require.NoError(t, err)

	_, err = uc.CreateBatch(ctx, createInput("LOTE-001", "200"))
	require.ErrorIs(t, err, domain.ErrDuplicateBatchNumber)

	assert.Len(t, store.batches, 1, "el duplicado no deja lote")
	assert.Len(t, store.movs, 1, "ni IN sintético")
}

func TestCreateBatch_ItemSinManejoDeLotes(t *testing.T) {
	uc, _ := newBatchFixture()
	in := createInput("LOTE-001", "100")
	in.ItemID = plainItemID
	_, err := uc.CreateBatch(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrItemNotBatchTracked)
}

func TestCreateBatch_CantidadNoPositivaRechazada(t *testing.T) {
	uc, _ := newBatchFixture()
	_, err := uc.CreateBatch(context.Background(), createInput("LOTE-001", "0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordMovement
// ──────────────────────────────────────────────────────────────────────────────

func mustCreateBatch(t *testing.T, uc *batch.UseCase, number, qty string) *entity.Batch {
	t.Helper()
	b, err := uc.CreateBatch(context.Background(), createInput(number, qty))
	require.NoError(t, err)
	return b
}

func TestRecordMovement_OUTDescuentaCantidadDerivada(t *testing.T) {
	uc, _ := newBatchFixture()
	b := mustCreateBatch(t, uc, "LOTE-001", "100")

	res, err := uc.RecordMovement(context.Background(), batch.MovementInput{
		CompanyID:     testCompanyID,
		UserID:        testUserID,
		BatchID:       b.ID,
		Type:          entity.MovementTypeOUT,
		Quantity:      dec("30"),
		ReferenceType: entity.ReferenceSALE,
	})
	require.NoError(t, err)
	assert.True(t, res.Movement.Quantity.Equal(dec("-30")))
	assert.True(t, res.CurrentQuantity.Equal(dec("70")), "100 - 30 = 70")
}

// Un OUT que excede la cantidad derivada se rechaza sin apendizar nada.
func TestRecordMovement_OUTExcedidoNoEscribe(t *testing.T) {
	uc, store := newBatchFixture()
	b := mustCreateBatch(t, uc, "LOTE-001", "50")

	_, err := uc.RecordMovement(context.Background(), batch.MovementInput{
		CompanyID:     testCompanyID,
		UserID:        testUserID,
		BatchID:       b.ID,
		Type:          entity.MovementTypeOUT,
		Quantity:      dec("80"),
		ReferenceType: entity.ReferenceSALE,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBatchQuantity)
	assert.Len(t, store.movs, 1, "solo queda el IN sintético")
}

func TestRecordMovement_TRANSFERRequiereRutaValida(t *testing.T) {
	uc, _ := newBatchFixture()
	b := mustCreateBatch(t, uc, "LOTE-001", "50")

	in := batch.MovementInput{
		CompanyID:     testCompanyID,
		BatchID:       b.ID,
		Type:          entity.MovementTypeTRANSFER,
		Quantity:      dec("10"),
		ReferenceType: entity.ReferenceTRANSFER,
		FromBranchID:  branchA,
		ToBranchID:    branchA, // misma sucursal
	}
	_, err := uc.RecordMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidTransferRoute)
}

// Un TRANSFER reubica el lote entre sucursales: queda registrado con su
// origen y destino, pero la cantidad derivada del lote no cambia.
func TestRecordMovement_TRANSFERNoAlteraCantidadDerivada(t *testing.T) {
	uc, store := newBatchFixture()
	b := mustCreateBatch(t, uc, "LOTE-001", "50")

	res, err := uc.RecordMovement(context.Background(), batch.MovementInput{
		CompanyID:     testCompanyID,
		UserID:        testUserID,
		BatchID:       b.ID,
		Type:          entity.MovementTypeTRANSFER,
		Quantity:      dec("10"),
		ReferenceType: entity.ReferenceTRANSFER,
		FromBranchID:  branchA,
		ToBranchID:    branchB,
	})
	require.NoError(t, err)
	assert.Equal(t, branchA, res.Movement.FromBranchID)
	assert.Equal(t, branchB, res.Movement.ToBranchID)
	assert.True(t, res.CurrentQuantity.Equal(dec("50")),
		"reubicar no crea ni destruye cantidad del lote")
	assert.Len(t, store.movs, 2)

	tr, err := uc.GetTraceability(context.Background(), testCompanyID, b.ID)
	require.NoError(t, err)
	assert.True(t, tr.CurrentQuantity.Equal(dec("50")),
		"la cantidad derivada sigue siendo la inicial tras el traslado")
}

// Tampoco puede reubicarse más cantidad de la que el lote tiene.
func TestRecordMovement_TRANSFERExcedidoNoEscribe(t *testing.T) {
	uc, store := newBatchFixture()
	b := mustCreateBatch(t, uc, "LOTE-001", "50")

	_, err := uc.RecordMovement(context.Background(), batch.MovementInput{
		CompanyID:     testCompanyID,
		UserID:        testUserID,
		BatchID:       b.ID,
		Type:          entity.MovementTypeTRANSFER,
		Quantity:      dec("80"),
		ReferenceType: entity.ReferenceTRANSFER,
		FromBranchID:  branchA,
		ToBranchID:    branchB,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBatchQuantity)
	assert.Len(t, store.movs, 1, "solo queda el IN sintético")
}

func TestRecordMovement_LoteDeOtraEmpresa(t *testing.T) {
	uc, _ := newBatchFixture()
	b := mustCreateBatch(t, uc, "LOTE-001", "50")

	_, err := uc.RecordMovement(context.Background(), batch.MovementInput{
		CompanyID:     otherCompany,
		BatchID:       b.ID,
		Type:          entity.MovementTypeOUT,
		Quantity:      dec("10"),
		ReferenceType: entity.ReferenceSALE,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Trazabilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestGetTraceability_EnlazaPadreEHijos(t *testing.T) {
	uc, _ := newBatchFixture()
	ctx := context.Background()

	parent := mustCreateBatch(t, uc, "LOTE-PADRE", "1000")

	childIn := createInput("LOTE-HIJO-1", "400")
	childIn.SupplierBatch = "LOTE-PADRE"
	child1, err := uc.CreateBatch(ctx, childIn)
	require.NoError(t, err)

	childIn2 := createInput("LOTE-HIJO-2", "300")
	childIn2.SupplierBatch = "LOTE-PADRE"
	_, err = uc.CreateBatch(ctx, childIn2)
	require.NoError(t, err)

	// Visto desde el hijo: un salto hacia arriba.
	trace, err := uc.GetTraceability(ctx, testCompanyID, child1.ID)
	require.NoError(t, err)
	require.NotNil(t, trace.Upstream)
	assert.Equal(t, parent.ID, trace.Upstream.ID)
	assert.True(t, trace.CurrentQuantity.Equal(dec("400")))

	// Visto desde el padre: un salto hacia abajo, dos hijos.
	trace, err = uc.GetTraceability(ctx, testCompanyID, parent.ID)
	require.NoError(t, err)
	assert.Nil(t, trace.Upstream, "el padre no tiene lote origen")
	assert.Len(t, trace.Downstream, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Calidad
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateQuality_CambiaEstadoYNotas(t *testing.T) {
	uc, store := newBatchFixture()
	b := mustCreateBatch(t, uc, "LOTE-001", "100")

	updated, err := uc.UpdateQuality(context.Background(), testCompanyID, b.ID, entity.QualityPASSED, "inspección ok")
	require.NoError(t, err)
	assert.Equal(t, entity.QualityPASSED, updated.QualityStatus)
	assert.Equal(t, entity.QualityPASSED, store.batches[b.ID].QualityStatus)
}

func TestUpdateQuality_EstadoInexistenteRechazado(t *testing.T) {
	uc, _ := newBatchFixture()
	b := mustCreateBatch(t, uc, "LOTE-001", "100")

	_, err := uc.UpdateQuality(context.Background(), testCompanyID, b.ID, "APROBADISIMO", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// No hay grafo de transiciones: FAILED puede volver a PASSED.
func TestUpdateQuality_SinGrafoDeTransiciones(t *testing.T) {
	uc, _ := newBatchFixture()
	b := mustCreateBatch(t, uc, "LOTE-001", "100")
	ctx := context.Background()

	_, err := uc.UpdateQuality(ctx, testCompanyID, b.ID, entity.QualityFAILED, "")
	require.NoError(t, err)
	_, err = uc.UpdateQuality(ctx, testCompanyID, b.ID, entity.QualityPASSED, "reinspección")
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas de vencimiento: now < ExpiryDate <= now + ventana
// ──────────────────────────────────────────────────────────────────────────────

func TestExpiryAlerts_SoloDentroDeLaVentana(t *testing.T) {
	uc, _ := newBatchFixture()
	ctx := context.Background()

	mkBatch := func(number string, expiry *time.Time) {
		in := createInput(number, "10")
		in.ExpiryDate = expiry
		_, err := uc.CreateBatch(ctx, in)
		require.NoError(t, err)
	}
	days := func(n int) *time.Time {
		d := time.Now().AddDate(0, 0, n)
		return &d
	}

	mkBatch("LOTE-PRONTO", days(10))  // dentro de la ventana de 30 días
	mkBatch("LOTE-LEJANO", days(60))  // fuera de la ventana
	mkBatch("LOTE-VENCIDO", days(-5)) // ya vencido: fuera de la ventana
	mkBatch("LOTE-SIN-FECHA", nil)    // sin fecha: nunca alerta

	alerts, err := uc.ExpiryAlerts(ctx, testCompanyID, 0) // 0 → default 30
	require.NoError(t, err)

	require.Len(t, alerts, 1)
	assert.Equal(t, "LOTE-PRONTO", alerts[0].Batch.BatchNumber)
	assert.Equal(t, 9, alerts[0].DaysUntilExpiry, "10 días menos el redondeo hacia abajo")
	assert.False(t, alerts[0].IsExpired)
}

func TestExpiryAlerts_VentanaAmplia(t *testing.T) {
	uc, _ := newBatchFixture()
	ctx := context.Background()

	in := createInput("LOTE-60", "10")
	d := time.Now().AddDate(0, 0, 60)
	in.ExpiryDate = &d
	_, err := uc.CreateBatch(ctx, in)
	require.NoError(t, err)

	alerts, err := uc.ExpiryAlerts(ctx, testCompanyID, 90)
	require.NoError(t, err)
	assert.Len(t, alerts, 1, "con ventana de 90 días el lote a 60 días alerta")
}
