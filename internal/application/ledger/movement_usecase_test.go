package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/ledger-api/internal/application/ledger"
	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
)

const (
	testCompanyID = "co-1"
	otherCompany  = "co-2"
	testItemID    = "itm-1"
	otherItemID   = "itm-ajeno"
	branchA       = "br-1"
	branchB       = "br-2"
	testUOMID     = "uom-1"
	testUserID    = "usr-1"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// newLedgerFixture arma un caso de uso con fakes en memoria y datos maestros
// sembrados: un artículo, dos sucursales y una UOM del tenant de prueba, más
// un artículo de otra empresa para los tests de tenencia.
func newLedgerFixture() (*ledger.MovementUseCase, *memStore, *fakeTxRunner) {
	store := newMemStore()
	store.items[testItemID] = entity.Item{
		ID: testItemID, CompanyID: testCompanyID, SKU: "SKU-001",
		Name: "Tornillo 3/4", UnitCost: dec("10"), Active: true,
	}
	store.items[otherItemID] = entity.Item{
		ID: otherItemID, CompanyID: otherCompany, SKU: "SKU-X", Active: true,
	}
	store.branches[branchA] = entity.Branch{ID: branchA, CompanyID: testCompanyID, Name: "Central", Active: true}
	store.branches[branchB] = entity.Branch{ID: branchB, CompanyID: testCompanyID, Name: "Norte", Active: true}
	store.uoms[testUOMID] = entity.UOM{ID: testUOMID, CompanyID: testCompanyID, Code: "UN", ConversionFactor: dec("1"), Active: true}

	runner := &fakeTxRunner{store: store}
	uc := ledger.NewMovementUseCase(
		runner,
		&fakeItemRepo{s: store},
		&fakeBranchRepo{s: store},
		&fakeUOMRepo{s: store},
		&fakeMovementRepo{s: store},
		&fakeBalanceRepo{s: store},
	)
	return uc, store, runner
}

func movementInput(movType string, qty string) ledger.MovementInput {
	in := ledger.MovementInput{
		CompanyID:     testCompanyID,
		UserID:        testUserID,
		ItemID:        testItemID,
		BranchID:      branchA,
		UOMID:         testUOMID,
		Type:          movType,
		ReferenceType: entity.ReferenceADJUSTMENT,
		Quantity:      dec(qty),
	}
	if movType == entity.MovementTypeIN {
		cost := dec("10")
		in.UnitCost = &cost
		in.ReferenceType = entity.ReferencePURCHASE
	}
	if movType == entity.MovementTypeOUT {
		in.ReferenceType = entity.ReferenceSALE
	}
	return in
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement — casos base
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_INCreaMovimientoYSaldo(t *testing.T) {
	uc, store, _ := newLedgerFixture()

	res, err := uc.RegisterMovement(context.Background(), movementInput(entity.MovementTypeIN, "10"))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.Movement.Quantity.Equal(dec("10")), "IN se almacena con delta positivo")
	assert.True(t, res.Balance.Quantity.Equal(dec("10")))
	assert.Len(t, store.movements, 1)
}

// El saldo de una llave es exactamente la suma de los deltas de sus movimientos.
func TestRegisterMovement_SaldoEsSumaDeDeltas(t *testing.T) {
	uc, store, _ := newLedgerFixture()
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, movementInput(entity.MovementTypeIN, "100"))
	require.NoError(t, err)
	_, err = uc.RegisterMovement(ctx, movementInput(entity.MovementTypeOUT, "30"))
	require.NoError(t, err)
	res, err := uc.RegisterMovement(ctx, movementInput(entity.MovementTypeADJUSTMENT, "5"))
	require.NoError(t, err)

	assert.True(t, res.Balance.Quantity.Equal(dec("75")), "100 - 30 + 5 = 75")

	require.Len(t, store.movements, 3)
	assert.True(t, store.movements[0].Quantity.Equal(dec("100")))
	assert.True(t, store.movements[1].Quantity.Equal(dec("-30")), "OUT se almacena con delta negativo")
	assert.True(t, store.movements[2].Quantity.Equal(dec("5")), "ADJUSTMENT siempre suma")
}

func TestRegisterMovement_INActualizaCostoPromedio(t *testing.T) {
	uc, store, _ := newLedgerFixture()
	ctx := context.Background()

	first := movementInput(entity.MovementTypeIN, "10")
	c1 := dec("100")
	first.UnitCost = &c1
	_, err := uc.RegisterMovement(ctx, first)
	require.NoError(t, err)

	second := movementInput(entity.MovementTypeIN, "10")
	c2 := dec("200")
	second.UnitCost = &c2
	_, err = uc.RegisterMovement(ctx, second)
	require.NoError(t, err)

	item := store.items[testItemID]
	assert.True(t, item.UnitCost.Equal(dec("150")),
		"promedio ponderado: (10×100 + 10×200) / 20 = 150, obtuvo %s", item.UnitCost)
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement — rechazos
// ──────────────────────────────────────────────────────────────────────────────

// Un OUT que excede el saldo se rechaza sin dejar rastro: ni movimiento ni
// cambio en la proyección de saldo.
func TestRegisterMovement_OUTInsuficienteNoEscribeNada(t *testing.T) {
	uc, store, _ := newLedgerFixture()
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, movementInput(entity.MovementTypeIN, "50"))
	require.NoError(t, err)

	_, err = uc.RegisterMovement(ctx, movementInput(entity.MovementTypeOUT, "80"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Len(t, store.movements, 1, "el OUT rechazado no apendiza movimiento")
	key := entity.BalanceKey{ItemID: testItemID, BranchID: branchA, UOMID: testUOMID}
	assert.True(t, store.balances[key].Quantity.Equal(dec("50")), "el saldo no cambia")
}

func TestRegisterMovement_TRANSFERDirectoRechazado(t *testing.T) {
	uc, _, _ := newLedgerFixture()
	in := movementInput(entity.MovementTypeTRANSFER, "5")
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"TRANSFER solo lo escribe el orquestador de traslados")
}

func TestRegisterMovement_CantidadNoPositivaRechazada(t *testing.T) {
	uc, _, _ := newLedgerFixture()
	in := movementInput(entity.MovementTypeOUT, "0")
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_INSinCostoRechazado(t *testing.T) {
	uc, _, _ := newLedgerFixture()
	in := movementInput(entity.MovementTypeIN, "5")
	in.UnitCost = nil
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_TipoReferenciaInvalido(t *testing.T) {
	uc, _, _ := newLedgerFixture()
	in := movementInput(entity.MovementTypeIN, "5")
	in.ReferenceType = "FACTURA"
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_ItemDeOtraEmpresa(t *testing.T) {
	uc, _, _ := newLedgerFixture()
	in := movementInput(entity.MovementTypeADJUSTMENT, "5")
	in.ItemID = otherItemID
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegisterMovement_ItemInexistente(t *testing.T) {
	uc, _, _ := newLedgerFixture()
	in := movementInput(entity.MovementTypeADJUSTMENT, "5")
	in.ItemID = "no-existe"
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reintentos ante conflictos de serialización
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_ReintentaAnteConflictoDeTx(t *testing.T) {
	uc, store, runner := newLedgerFixture()
	runner.conflicts = 2 // fallan los dos primeros intentos, el tercero pasa

	res, err := uc.RegisterMovement(context.Background(), movementInput(entity.MovementTypeIN, "10"))
	require.NoError(t, err, "el conflicto de serialización se reintenta, no se propaga")
	assert.True(t, res.Balance.Quantity.Equal(dec("10")))
	assert.Len(t, store.movements, 1, "los intentos fallidos no escriben nada")
}

func TestRegisterMovement_ConflictoPersistenteSeRinde(t *testing.T) {
	uc, store, runner := newLedgerFixture()
	runner.conflicts = 10 // más que el máximo de intentos

	_, err := uc.RegisterMovement(context.Background(), movementInput(entity.MovementTypeIN, "10"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTxConflict))
	assert.Empty(t, store.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: dos OUT simultáneos no pueden gastar el mismo saldo
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_OUTConcurrenteSoloUnoGana(t *testing.T) {
	uc, store, _ := newLedgerFixture()
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, movementInput(entity.MovementTypeIN, "100"))
	require.NoError(t, err)

	// Dos OUT de 60 contra un saldo de 100: como máximo uno puede confirmar.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RegisterMovement(ctx, movementInput(entity.MovementTypeOUT, "60"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var insufficient, ok int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactamente un OUT debe confirmar")
	assert.Equal(t, 1, insufficient, "el otro debe rechazarse por stock insuficiente")

	key := entity.BalanceKey{ItemID: testItemID, BranchID: branchA, UOMID: testUOMID}
	assert.True(t, store.balances[key].Quantity.Equal(dec("40")), "saldo final 100 - 60 = 40")
	assert.Len(t, store.movements, 2, "IN inicial + un solo OUT confirmado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetBalance_LlaveSinMovimientosRetornaCero(t *testing.T) {
	uc, _, _ := newLedgerFixture()
	key := entity.BalanceKey{ItemID: testItemID, BranchID: branchB, UOMID: testUOMID}

	bal, err := uc.GetBalance(context.Background(), testCompanyID, key)
	require.NoError(t, err)
	require.NotNil(t, bal, "una llave nunca movida devuelve saldo cero, no error")
	assert.True(t, bal.Quantity.IsZero())
}

func TestListByItem_ValidaTenencia(t *testing.T) {
	uc, _, _ := newLedgerFixture()
	_, err := uc.ListByItem(context.Background(), otherCompany, testItemID, nil, nil, 50, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
