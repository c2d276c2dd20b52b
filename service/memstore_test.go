package service_test

import (
	"context"
	"sort"
	"time"

	"licensing-core/service"
	"licensing-core/types"
)

// memStore is an in-memory ContractStore for unit tests. Transaction
// snapshots the state up front and restores it when fn fails, mirroring
// the rollback behavior of the Postgres repo.
type memStore struct {
	contracts map[string]*types.Contract
	order     []string

	// shared with memCatalog so loaded contracts carry names
	systems  map[string]*types.SoftwareSystem
	versions map[string]*types.SoftwareVersion
}

func newMemStore(systems map[string]*types.SoftwareSystem, versions map[string]*types.SoftwareVersion) *memStore {
	return &memStore{
		contracts: make(map[string]*types.Contract),
		systems:   systems,
		versions:  versions,
	}
}

func (m *memStore) Transaction(_ context.Context, fn func(tx service.ContractStore) error) error {
	snapshot, order := m.snapshot()
	if err := fn(m); err != nil {
		m.contracts, m.order = snapshot, order
		return err
	}
	return nil
}

func (m *memStore) snapshot() (map[string]*types.Contract, []string) {
	contracts := make(map[string]*types.Contract, len(m.contracts))
	for id, c := range m.contracts {
		cc := *c
		cc.Payments = append([]types.Payment(nil), c.Payments...)
		contracts[id] = &cc
	}
	return contracts, append([]string(nil), m.order...)
}

func (m *memStore) GetByID(_ context.Context, id string) (*types.Contract, error) {
	c, ok := m.contracts[id]
	if !ok {
		return nil, nil
	}
	return m.loaded(c), nil
}

func (m *memStore) GetByIDForUpdate(ctx context.Context, id string) (*types.Contract, error) {
	return m.GetByID(ctx, id)
}

func (m *memStore) FindActive(_ context.Context, clientID, systemID string) (*types.Contract, error) {
	for _, id := range m.order {
		c := m.contracts[id]
		if c.ClientID == clientID && c.SoftwareSystemID == systemID && c.Status == types.StatusActive {
			return m.loaded(c), nil
		}
	}
	return nil, nil
}

func (m *memStore) HasSigned(_ context.Context, clientID string) (bool, error) {
	for _, c := range m.contracts {
		if c.ClientID == clientID && c.Status == types.StatusSigned {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Create(_ context.Context, contract *types.Contract) error {
	// The partial unique index of the Postgres schema.
	if contract.Status == types.StatusActive {
		for _, c := range m.contracts {
			if c.ClientID == contract.ClientID && c.SoftwareSystemID == contract.SoftwareSystemID &&
				c.Status == types.StatusActive {
				return types.Conflict("client already has an active contract for this software")
			}
		}
	}
	cc := *contract
	cc.Payments = append([]types.Payment(nil), contract.Payments...)
	cc.CreatedAt = time.Now()
	m.contracts[cc.ID] = &cc
	m.order = append(m.order, cc.ID)
	return nil
}

func (m *memStore) UpdateStatus(_ context.Context, id string, status types.ContractStatus) error {
	if c, ok := m.contracts[id]; ok {
		c.Status = status
	}
	return nil
}

func (m *memStore) AddPayment(_ context.Context, payment *types.Payment) error {
	c, ok := m.contracts[payment.ContractID]
	if !ok {
		return types.NotFound("contract not found")
	}
	c.Payments = append(c.Payments, *payment)
	return nil
}

func (m *memStore) MovePayments(_ context.Context, fromContractID, toContractID string) (int64, error) {
	from, to := m.contracts[fromContractID], m.contracts[toContractID]
	if from == nil || to == nil {
		return 0, types.NotFound("contract not found")
	}
	moved := int64(len(from.Payments))
	for _, p := range from.Payments {
		p.ContractID = toContractID
		to.Payments = append(to.Payments, p)
	}
	from.Payments = nil
	return moved, nil
}

func (m *memStore) List(_ context.Context) ([]types.Contract, error) {
	out := make([]types.Contract, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.loaded(m.contracts[id]))
	}
	return out, nil
}

func (m *memStore) loaded(c *types.Contract) *types.Contract {
	cc := *c
	cc.Payments = append([]types.Payment(nil), c.Payments...)
	sort.SliceStable(cc.Payments, func(i, j int) bool {
		return cc.Payments[i].PaymentDate.Before(cc.Payments[j].PaymentDate)
	})
	cc.System = m.systems[c.SoftwareSystemID]
	cc.Version = m.versions[c.SoftwareVersionID]
	return &cc
}

// memCatalog is an in-memory CatalogStore and DiscountStore.
type memCatalog struct {
	clients   map[string]*types.Client
	systems   map[string]*types.SoftwareSystem
	versions  map[string]*types.SoftwareVersion
	discounts []types.Discount
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		clients:  make(map[string]*types.Client),
		systems:  make(map[string]*types.SoftwareSystem),
		versions: make(map[string]*types.SoftwareVersion),
	}
}

func (m *memCatalog) GetClient(_ context.Context, id string) (*types.Client, error) {
	return m.clients[id], nil
}

func (m *memCatalog) GetSystem(_ context.Context, id string) (*types.SoftwareSystem, error) {
	return m.systems[id], nil
}

func (m *memCatalog) GetVersion(_ context.Context, systemID, versionID string) (*types.SoftwareVersion, error) {
	v := m.versions[versionID]
	if v == nil || v.SoftwareSystemID != systemID {
		return nil, nil
	}
	return v, nil
}

func (m *memCatalog) ListByType(_ context.Context, discountType types.DiscountType) ([]types.Discount, error) {
	var out []types.Discount
	for _, d := range m.discounts {
		if d.DiscountType == discountType {
			out = append(out, d)
		}
	}
	return out, nil
}
