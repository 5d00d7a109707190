package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/ledger-api/internal/application/ledger"
	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
)

// newTransferFixture reusa los datos maestros del fixture de movimientos y
// siembra un saldo inicial en la sucursal origen.
func newTransferFixture(initialQty string) (*ledger.TransferUseCase, *memStore) {
	store := newMemStore()
	store.items[testItemID] = entity.Item{
		ID: testItemID, CompanyID: testCompanyID, SKU: "SKU-001",
		Name: "Tornillo 3/4", UnitCost: dec("10"), Active: true,
	}
	store.branches[branchA] = entity.Branch{ID: branchA, CompanyID: testCompanyID, Name: "Central", Active: true}
	store.branches[branchB] = entity.Branch{ID: branchB, CompanyID: testCompanyID, Name: "Norte", Active: true}
	store.uoms[testUOMID] = entity.UOM{ID: testUOMID, CompanyID: testCompanyID, Code: "UN", ConversionFactor: dec("1"), Active: true}

	if initialQty != "" {
		key := entity.BalanceKey{ItemID: testItemID, BranchID: branchA, UOMID: testUOMID}
		bal := entity.StockBalance{ItemID: testItemID, BranchID: branchA, UOMID: testUOMID, Quantity: dec(initialQty)}
		bal.Recalculate()
		store.balances[key] = bal
	}

	runner := &fakeTxRunner{store: store}
	uc := ledger.NewTransferUseCase(
		runner,
		&fakeItemRepo{s: store},
		&fakeBranchRepo{s: store},
		&fakeUOMRepo{s: store},
		&fakeTransferRepo{s: store},
		&fakeMovementRepo{s: store},
	)
	return uc, store
}

func transferInput(qty string) ledger.TransferInput {
	return ledger.TransferInput{
		CompanyID:    testCompanyID,
		UserID:       testUserID,
		ItemID:       testItemID,
		FromBranchID: branchA,
		ToBranchID:   branchB,
		UOMID:        testUOMID,
		Quantity:     dec(qty),
	}
}

func TestTransfer_MueveSaldoEntreSucursales(t *testing.T) {
	uc, store := newTransferFixture("100")

	res, err := uc.Transfer(context.Background(), transferInput("40"))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, entity.TransferCOMPLETED, res.Transfer.Status,
		"el traslado se completa dentro de la misma transacción")
	assert.True(t, res.FromBalance.Quantity.Equal(dec("60")))
	assert.True(t, res.ToBalance.Quantity.Equal(dec("40")))

	// Los dos movimientos comparten el ID del traslado como referencia.
	require.Len(t, res.Movements, 2)
	for _, m := range res.Movements {
		assert.Equal(t, entity.MovementTypeTRANSFER, m.Type)
		assert.Equal(t, entity.ReferenceTRANSFER, m.ReferenceType)
		assert.Equal(t, res.Transfer.ID, m.ReferenceID)
	}
	out, in := res.Movements[0], res.Movements[1]
	assert.Equal(t, branchA, out.BranchID)
	assert.True(t, out.Quantity.Equal(dec("-40")))
	assert.Equal(t, branchB, in.BranchID)
	assert.True(t, in.Quantity.Equal(dec("40")))

	assert.Len(t, store.movements, 2)
	assert.Equal(t, entity.TransferCOMPLETED, store.transfers[res.Transfer.ID].Status)
}

// Con saldo insuficiente en origen no queda NINGUNA de las cinco escrituras:
// ni traslado, ni movimientos, ni cambios de saldo.
func TestTransfer_InsuficienteNoEscribeNada(t *testing.T) {
	uc, store := newTransferFixture("30")

	_, err := uc.Transfer(context.Background(), transferInput("50"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, store.movements)
	assert.Empty(t, store.transfers)
	key := entity.BalanceKey{ItemID: testItemID, BranchID: branchA, UOMID: testUOMID}
	assert.True(t, store.balances[key].Quantity.Equal(dec("30")), "el saldo origen no cambia")
}

func TestTransfer_MismaSucursalRechazado(t *testing.T) {
	uc, _ := newTransferFixture("100")
	in := transferInput("10")
	in.ToBranchID = branchA
	_, err := uc.Transfer(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidTransferRoute)
}

func TestTransfer_CantidadNoPositivaRechazada(t *testing.T) {
	uc, _ := newTransferFixture("100")
	_, err := uc.Transfer(context.Background(), transferInput("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransfer_SucursalInexistente(t *testing.T) {
	uc, _ := newTransferFixture("100")
	in := transferInput("10")
	in.ToBranchID = "no-existe"
	_, err := uc.Transfer(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetTransfer_DevuelveLosDosMovimientos(t *testing.T) {
	uc, _ := newTransferFixture("100")
	ctx := context.Background()

	res, err := uc.Transfer(ctx, transferInput("25"))
	require.NoError(t, err)

	transfer, movs, err := uc.GetTransfer(ctx, testCompanyID, res.Transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Transfer.ID, transfer.ID)
	assert.Len(t, movs, 2)
}

func TestGetTransfer_OtraEmpresaDenegado(t *testing.T) {
	uc, _ := newTransferFixture("100")
	ctx := context.Background()

	res, err := uc.Transfer(ctx, transferInput("25"))
	require.NoError(t, err)

	_, _, err = uc.GetTransfer(ctx, otherCompany, res.Transfer.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
