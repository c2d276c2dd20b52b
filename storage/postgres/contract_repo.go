package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"licensing-core/service"
	"licensing-core/types"
)

// ContractRepo wraps all contract table access.
type ContractRepo struct {
	db *gorm.DB
}

func NewContractRepo(db *gorm.DB) *ContractRepo {
	return &ContractRepo{db: db}
}

// Transaction runs fn against a repo bound to one database transaction.
// A duplicate-key failure on the active-contract index is reported as
// Conflict so callers can retry.
func (r *ContractRepo) Transaction(ctx context.Context, fn func(tx service.ContractStore) error) error {
	err := r.db.WithContext(ctx).Transaction(func(txdb *gorm.DB) error {
		return fn(&ContractRepo{db: txdb})
	})
	return translateConflict(err)
}

func translateConflict(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return types.Conflict("client already has an active contract for this software")
	}
	return err
}

func (r *ContractRepo) GetByID(ctx context.Context, id string) (*types.Contract, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate loads the contract under SELECT ... FOR UPDATE so an
// expiry sweep cannot flip its status between our read and write.
func (r *ContractRepo) GetByIDForUpdate(ctx context.Context, id string) (*types.Contract, error) {
	return r.get(ctx, id, true)
}

func (r *ContractRepo) get(ctx context.Context, id string, forUpdate bool) (*types.Contract, error) {
	query := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_date, created_at") }).
		Preload("System").
		Preload("Version")
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var contract types.Contract
	err := query.First(&contract, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepo) FindActive(ctx context.Context, clientID, systemID string) (*types.Contract, error) {
	var contract types.Contract
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND software_system_id = ? AND status = ?", clientID, systemID, types.StatusActive).
		First(&contract).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// HasSigned is the loyalty predicate: has this client ever fully paid.
func (r *ContractRepo) HasSigned(ctx context.Context, clientID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&types.Contract{}).
		Where("client_id = ? AND status = ?", clientID, types.StatusSigned).
		Count(&count).Error
	return count > 0, err
}

func (r *ContractRepo) Create(ctx context.Context, contract *types.Contract) error {
	return translateConflict(r.db.WithContext(ctx).Create(contract).Error)
}

func (r *ContractRepo) UpdateStatus(ctx context.Context, id string, status types.ContractStatus) error {
	return r.db.WithContext(ctx).
		Model(&types.Contract{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *ContractRepo) AddPayment(ctx context.Context, payment *types.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// MovePayments re-links every payment of one contract to another.
func (r *ContractRepo) MovePayments(ctx context.Context, fromContractID, toContractID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&types.Payment{}).
		Where("contract_id = ?", fromContractID).
		Update("contract_id", toContractID)
	return result.RowsAffected, result.Error
}

func (r *ContractRepo) List(ctx context.Context) ([]types.Contract, error) {
	var contracts []types.Contract
	err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_date, created_at") }).
		Preload("System").
		Preload("Version").
		Order("created_at").
		Find(&contracts).Error
	return contracts, err
}

// CancelExpired batch-cancels lapsed active contracts. A single UPDATE,
// so each sweep tick is atomic and idempotent.
func (r *ContractRepo) CancelExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&types.Contract{}).
		Where("status = ? AND end_date < ?", types.StatusActive, now).
		Update("status", types.StatusCancelled)
	return result.RowsAffected, result.Error
}
