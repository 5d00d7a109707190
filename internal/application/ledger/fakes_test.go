package ledger_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

// memStore estado compartido de los fakes en memoria. El mutex lo toma el
// fakeTxRunner durante toda la transacción: los repos atados a la tx no
// bloquean, los atados al "pool" sí.
type memStore struct {
	mu        sync.Mutex
	movements []*entity.StockMovement
	balances  map[entity.BalanceKey]entity.StockBalance
	items     map[string]entity.Item
	branches  map[string]entity.Branch
	uoms      map[string]entity.UOM
	transfers map[string]entity.StockTransfer
}

func newMemStore() *memStore {
	return &memStore{
		balances:  make(map[entity.BalanceKey]entity.StockBalance),
		items:     make(map[string]entity.Item),
		branches:  make(map[string]entity.Branch),
		uoms:      make(map[string]entity.UOM),
		transfers: make(map[string]entity.StockTransfer),
	}
}

// storeSnapshot estado previo a una transacción, para simular rollback.
type storeSnapshot struct {
	movLen    int
	balances  map[entity.BalanceKey]entity.StockBalance
	items     map[string]entity.Item
	transfers map[string]entity.StockTransfer
}

func (s *memStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		movLen:    len(s.movements),
		balances:  make(map[entity.BalanceKey]entity.StockBalance, len(s.balances)),
		items:     make(map[string]entity.Item, len(s.items)),
		transfers: make(map[string]entity.StockTransfer, len(s.transfers)),
	}
	for k, v := range s.balances {
		snap.balances[k] = v
	}
	for k, v := range s.items {
		snap.items[k] = v
	}
	for k, v := range s.transfers {
		snap.transfers[k] = v
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.movements = s.movements[:snap.movLen]
	s.balances = snap.balances
	s.items = snap.items
	s.transfers = snap.transfers
}

// fakeTxRunner serializa las "transacciones" con el mutex del store y
// restaura el snapshot si la función falla (rollback). conflicts simula
// fallas de serialización de la BD antes de dejar pasar la transacción.
type fakeTxRunner struct {
	store     *memStore
	conflicts int
}

func (r *fakeTxRunner) begin() (storeSnapshot, error) {
	if r.conflicts > 0 {
		r.conflicts--
		return storeSnapshot{}, fmt.Errorf("%w: simulado", domain.ErrTxConflict)
	}
	return r.store.snapshot(), nil
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	itemRepo repository.ItemRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, err := r.begin()
	if err != nil {
		return err
	}
	err = fn(
		&fakeMovementRepo{s: r.store, tx: true},
		&fakeBalanceRepo{s: r.store, tx: true},
		&fakeItemRepo{s: r.store, tx: true},
	)
	if err != nil {
		r.store.restore(snap)
	}
	return err
}

func (r *fakeTxRunner) RunTransfer(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	transferRepo repository.StockTransferRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, err := r.begin()
	if err != nil {
		return err
	}
	err = fn(
		&fakeMovementRepo{s: r.store, tx: true},
		&fakeBalanceRepo{s: r.store, tx: true},
		&fakeTransferRepo{s: r.store, tx: true},
	)
	if err != nil {
		r.store.restore(snap)
	}
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos fake. tx=true significa "atado a la transacción": el runner ya tiene
// el lock y el repo no debe volver a tomarlo.
// ──────────────────────────────────────────────────────────────────────────────

type fakeMovementRepo struct {
	s  *memStore
	tx bool
}

func (f *fakeMovementRepo) lock() func() {
	if f.tx {
		return func() {}
	}
	f.s.mu.Lock()
	return f.s.mu.Unlock
}

func (f *fakeMovementRepo) Create(m *entity.StockMovement) error {
	defer f.lock()()
	cp := *m
	f.s.movements = append(f.s.movements, &cp)
	return nil
}

func (f *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	defer f.lock()()
	for _, m := range f.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMovementRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	defer f.lock()()
	return f.filter(func(m *entity.StockMovement) bool { return m.ItemID == itemID }, from, to), nil
}

func (f *fakeMovementRepo) ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	defer f.lock()()
	return f.filter(func(m *entity.StockMovement) bool { return m.BranchID == branchID }, from, to), nil
}

func (f *fakeMovementRepo) ListByReference(referenceID string) ([]*entity.StockMovement, error) {
	defer f.lock()()
	return f.filter(func(m *entity.StockMovement) bool { return m.ReferenceID == referenceID }, nil, nil), nil
}

func (f *fakeMovementRepo) filter(pred func(*entity.StockMovement) bool, from, to *time.Time) []*entity.StockMovement {
	var out []*entity.StockMovement
	for _, m := range f.s.movements {
		if !pred(m) {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out
}

type fakeBalanceRepo struct {
	s  *memStore
	tx bool
}

func (f *fakeBalanceRepo) lock() func() {
	if f.tx {
		return func() {}
	}
	f.s.mu.Lock()
	return f.s.mu.Unlock
}

// Get devuelve el saldo en cero si la llave nunca se movió, igual que el
// adaptador de Postgres.
func (f *fakeBalanceRepo) Get(key entity.BalanceKey) (*entity.StockBalance, error) {
	defer f.lock()()
	return f.get(key), nil
}

func (f *fakeBalanceRepo) GetForUpdate(key entity.BalanceKey) (*entity.StockBalance, error) {
	defer f.lock()()
	return f.get(key), nil
}

func (f *fakeBalanceRepo) get(key entity.BalanceKey) *entity.StockBalance {
	if b, ok := f.s.balances[key]; ok {
		cp := b
		return &cp
	}
	return &entity.StockBalance{
		ItemID:   key.ItemID,
		BranchID: key.BranchID,
		UOMID:    key.UOMID,
		Quantity: decimal.Zero,
	}
}

func (f *fakeBalanceRepo) Upsert(b *entity.StockBalance) error {
	defer f.lock()()
	f.s.balances[b.Key()] = *b
	return nil
}

func (f *fakeBalanceRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.StockBalance, error) {
	defer f.lock()()
	var out []*entity.StockBalance
	for _, b := range f.s.balances {
		if b.BranchID == branchID {
			cp := b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBalanceRepo) ListByItem(itemID string) ([]*entity.StockBalance, error) {
	defer f.lock()()
	var out []*entity.StockBalance
	for _, b := range f.s.balances {
		if b.ItemID == itemID {
			cp := b
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeItemRepo struct {
	s  *memStore
	tx bool
}

func (f *fakeItemRepo) lock() func() {
	if f.tx {
		return func() {}
	}
	f.s.mu.Lock()
	return f.s.mu.Unlock
}

func (f *fakeItemRepo) Create(item *entity.Item) error {
	defer f.lock()()
	f.s.items[item.ID] = *item
	return nil
}

func (f *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	defer f.lock()()
	if it, ok := f.s.items[id]; ok {
		cp := it
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error) {
	defer f.lock()()
	for _, it := range f.s.items {
		if it.CompanyID == companyID && it.SKU == sku {
			cp := it
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) Update(item *entity.Item) error {
	defer f.lock()()
	f.s.items[item.ID] = *item
	return nil
}

func (f *fakeItemRepo) UpdateCost(itemID string, cost decimal.Decimal) error {
	defer f.lock()()
	it, ok := f.s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	it.UnitCost = cost
	f.s.items[itemID] = it
	return nil
}

func (f *fakeItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	defer f.lock()()
	var out []*entity.Item
	for _, it := range f.s.items {
		if it.CompanyID == companyID {
			cp := it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) Delete(id string) error {
	defer f.lock()()
	delete(f.s.items, id)
	return nil
}

type fakeBranchRepo struct{ s *memStore }

func (f *fakeBranchRepo) Create(b *entity.Branch) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.branches[b.ID] = *b
	return nil
}

func (f *fakeBranchRepo) GetByID(id string) (*entity.Branch, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if b, ok := f.s.branches[id]; ok {
		cp := b
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeBranchRepo) Update(b *entity.Branch) error { return f.Create(b) }

func (f *fakeBranchRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Branch, error) {
	return nil, nil
}

func (f *fakeBranchRepo) Delete(id string) error { return nil }

type fakeUOMRepo struct{ s *memStore }

func (f *fakeUOMRepo) Create(u *entity.UOM) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.uoms[u.ID] = *u
	return nil
}

func (f *fakeUOMRepo) GetByID(id string) (*entity.UOM, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if u, ok := f.s.uoms[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUOMRepo) GetByCompanyAndCode(companyID, code string) (*entity.UOM, error) {
	return nil, nil
}

func (f *fakeUOMRepo) Update(u *entity.UOM) error { return f.Create(u) }

func (f *fakeUOMRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.UOM, error) {
	return nil, nil
}

func (f *fakeUOMRepo) Delete(id string) error { return nil }

type fakeTransferRepo struct {
	s  *memStore
	tx bool
}

func (f *fakeTransferRepo) lock() func() {
	if f.tx {
		return func() {}
	}
	f.s.mu.Lock()
	return f.s.mu.Unlock
}

func (f *fakeTransferRepo) Create(t *entity.StockTransfer) error {
	defer f.lock()()
	f.s.transfers[t.ID] = *t
	return nil
}

func (f *fakeTransferRepo) GetByID(id string) (*entity.StockTransfer, error) {
	defer f.lock()()
	if t, ok := f.s.transfers[id]; ok {
		cp := t
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeTransferRepo) UpdateStatus(id, status string) error {
	defer f.lock()()
	t, ok := f.s.transfers[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	f.s.transfers[id] = t
	return nil
}

func (f *fakeTransferRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockTransfer, error) {
	defer f.lock()()
	var out []*entity.StockTransfer
	for _, t := range f.s.transfers {
		if t.CompanyID == companyID {
			cp := t
			out = append(out, &cp)
		}
	}
	return out, nil
}
