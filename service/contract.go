package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"licensing-core/types"
)

const (
	minContractDays = 3
	maxContractDays = 30

	// Validity window of a replacement contract for a lapsed one.
	replacementDays = 15
)

// ContractStore is the transactional contract persistence the lifecycle
// engine runs against. Implementations must make Transaction atomic and
// GetByIDForUpdate must hold the row against concurrent writers until
// the transaction ends.
type ContractStore interface {
	Transaction(ctx context.Context, fn func(tx ContractStore) error) error
	GetByID(ctx context.Context, id string) (*types.Contract, error)
	GetByIDForUpdate(ctx context.Context, id string) (*types.Contract, error)
	FindActive(ctx context.Context, clientID, systemID string) (*types.Contract, error)
	HasSigned(ctx context.Context, clientID string) (bool, error)
	Create(ctx context.Context, contract *types.Contract) error
	UpdateStatus(ctx context.Context, id string, status types.ContractStatus) error
	AddPayment(ctx context.Context, payment *types.Payment) error
	MovePayments(ctx context.Context, fromContractID, toContractID string) (int64, error)
	List(ctx context.Context) ([]types.Contract, error)
}

// CatalogStore resolves read-only reference data. Lookups return
// (nil, nil) when the row does not exist.
type CatalogStore interface {
	GetClient(ctx context.Context, id string) (*types.Client, error)
	GetSystem(ctx context.Context, id string) (*types.SoftwareSystem, error)
	GetVersion(ctx context.Context, systemID, versionID string) (*types.SoftwareVersion, error)
}

// ContractService owns the contract lifecycle: creation, payment
// settlement and the replacement flow for lapsed contracts.
type ContractService struct {
	contracts ContractStore
	catalog   CatalogStore
	pricing   *PricingService
	log       *slog.Logger
	now       func() time.Time
}

func NewContractService(contracts ContractStore, catalog CatalogStore, pricing *PricingService, log *slog.Logger) *ContractService {
	return &ContractService{
		contracts: contracts,
		catalog:   catalog,
		pricing:   pricing,
		log:       log,
		now:       time.Now,
	}
}

// Create prices and inserts a new ACTIVE contract.
func (s *ContractService) Create(ctx context.Context, req *types.CreateContractRequest) (*types.ContractView, error) {
	days := req.EndDate.Sub(req.StartDate).Hours() / 24
	if days < minContractDays || days > maxContractDays {
		return nil, types.InvalidArgument("contract period must be between %d and %d days", minContractDays, maxContractDays)
	}
	if req.SupportYears < minSupportYears || req.SupportYears > maxSupportYears {
		return nil, types.InvalidArgument("support years must be between %d and %d", minSupportYears, maxSupportYears)
	}

	client, err := s.catalog.GetClient(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, types.NotFound("client not found")
	}

	system, err := s.catalog.GetSystem(ctx, req.SoftwareSystemID)
	if err != nil {
		return nil, err
	}
	if system == nil {
		return nil, types.NotFound("software system not found")
	}
	if system.UpfrontCost == nil {
		return nil, types.InvalidArgument("software system %s is not available for upfront purchase", system.Name)
	}

	version, err := s.catalog.GetVersion(ctx, req.SoftwareSystemID, req.SoftwareVersionID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, types.NotFound("software version not found")
	}

	var contract *types.Contract
	err = s.contracts.Transaction(ctx, func(tx ContractStore) error {
		existing, err := tx.FindActive(ctx, req.ClientID, req.SoftwareSystemID)
		if err != nil {
			return err
		}
		if existing != nil {
			return types.Conflict("client already has an active contract for this software")
		}

		returning, err := tx.HasSigned(ctx, req.ClientID)
		if err != nil {
			return err
		}

		price, err := s.pricing.Quote(ctx, system, req.SupportYears, returning, s.now())
		if err != nil {
			return err
		}

		contract = &types.Contract{
			ID:                uuid.NewString(),
			ClientID:          req.ClientID,
			SoftwareSystemID:  req.SoftwareSystemID,
			SoftwareVersionID: req.SoftwareVersionID,
			StartDate:         req.StartDate,
			EndDate:           req.EndDate,
			SupportYears:      req.SupportYears,
			Price:             price,
			Status:            types.StatusActive,
		}
		// The partial unique index backstops this check-then-insert; a
		// duplicate-key error from Create surfaces as Conflict.
		return tx.Create(ctx, contract)
	})
	if err != nil {
		return nil, err
	}

	contract.System = system
	contract.Version = version
	return viewOf(contract), nil
}

// Pay records amount against the contract and signs it when the price is
// fully paid. Paying a cancelled contract triggers the replacement flow
// and always fails with BadRequest naming the contract to pay instead.
func (s *ContractService) Pay(ctx context.Context, contractID string, amount decimal.Decimal) (*types.ContractView, error) {
	amount = amount.Round(2)

	// A replacement must commit even though the payment itself fails, so
	// its rejection is carried out of the transaction instead of being
	// returned from it.
	var rejection error
	var view *types.ContractView

	err := s.contracts.Transaction(ctx, func(tx ContractStore) error {
		contract, err := tx.GetByIDForUpdate(ctx, contractID)
		if err != nil {
			return err
		}
		if contract == nil {
			return types.NotFound("contract not found")
		}

		if contract.Status == types.StatusCancelled {
			rejection, err = s.replaceLapsed(ctx, tx, contract)
			return err
		}
		if contract.Status == types.StatusSigned {
			return types.BadRequest("contract is already signed")
		}

		if !amount.IsPositive() {
			return types.BadRequest("payment amount must be positive")
		}
		remaining := contract.Remaining()
		if amount.GreaterThan(remaining) {
			return types.BadRequest("payment amount cannot be greater than the remaining amount")
		}

		payment := &types.Payment{
			ID:          uuid.NewString(),
			ContractID:  contract.ID,
			Amount:      amount,
			PaymentDate: s.now(),
		}
		if err := tx.AddPayment(ctx, payment); err != nil {
			return err
		}
		contract.Payments = append(contract.Payments, *payment)

		if contract.TotalPaid().Equal(contract.Price) {
			if err := tx.UpdateStatus(ctx, contract.ID, types.StatusSigned); err != nil {
				return err
			}
			contract.Status = types.StatusSigned
		}

		view = viewOf(contract)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejection != nil {
		return nil, rejection
	}
	return view, nil
}

// replaceLapsed reconciles a payment attempt against a cancelled
// contract. If no successor exists yet it inserts one and re-links the
// lapsed contract's payments to it; that work commits with the enclosing
// transaction. The returned rejection names the contract to pay instead.
func (s *ContractService) replaceLapsed(ctx context.Context, tx ContractStore, lapsed *types.Contract) (rejection error, err error) {
	successor, err := tx.FindActive(ctx, lapsed.ClientID, lapsed.SoftwareSystemID)
	if err != nil {
		return nil, err
	}
	if successor != nil {
		return types.BadRequest(
			"contract has been cancelled; you already have an active contract for this software, pay for it by id %s",
			successor.ID), nil
	}

	now := s.now()
	replacement := &types.Contract{
		ID:                uuid.NewString(),
		ClientID:          lapsed.ClientID,
		SoftwareSystemID:  lapsed.SoftwareSystemID,
		SoftwareVersionID: lapsed.SoftwareVersionID,
		StartDate:         now,
		EndDate:           now.AddDate(0, 0, replacementDays),
		SupportYears:      lapsed.SupportYears,
		Price:             lapsed.Price,
		Status:            types.StatusActive,
	}
	// Insert first so payments are re-linked to a durable id.
	if err := tx.Create(ctx, replacement); err != nil {
		return nil, err
	}
	moved, err := tx.MovePayments(ctx, lapsed.ID, replacement.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info("replaced lapsed contract",
		"lapsed_id", lapsed.ID, "replacement_id", replacement.ID, "payments_moved", moved)

	return types.BadRequest(
		"contract has been cancelled; new contract with id %s has been created, please pay for the new contract",
		replacement.ID), nil
}

// Get returns the view of a single contract.
func (s *ContractService) Get(ctx context.Context, contractID string) (*types.ContractView, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, types.NotFound("contract not found")
	}
	return viewOf(contract), nil
}

// List returns the views of all contracts.
func (s *ContractService) List(ctx context.Context) ([]types.ContractView, error) {
	contracts, err := s.contracts.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]types.ContractView, 0, len(contracts))
	for i := range contracts {
		views = append(views, *viewOf(&contracts[i]))
	}
	return views, nil
}

func viewOf(c *types.Contract) *types.ContractView {
	view := &types.ContractView{
		ID:           c.ID,
		ClientID:     c.ClientID,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		SupportYears: c.SupportYears,
		Status:       c.Status,
		Price:        c.Price,
		Paid:         c.TotalPaid(),
		LeftToPay:    c.Remaining(),
	}
	if c.System != nil {
		view.SoftwareName = c.System.Name
	}
	if c.Version != nil {
		view.SoftwareVersion = c.Version.Name
	}
	return view
}
