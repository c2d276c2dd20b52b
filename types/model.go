package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus is persisted as a string code, not an ordinal.
type ContractStatus string

const (
	StatusActive    ContractStatus = "ACTIVE"
	StatusSigned    ContractStatus = "SIGNED"
	StatusCancelled ContractStatus = "CANCELLED"
)

type DiscountType string

const (
	DiscountUpfront      DiscountType = "UPFRONT"
	DiscountSubscription DiscountType = "SUBSCRIPTION"
)

// Contract maps to the contracts table.
type Contract struct {
	ID                string         `gorm:"column:id;primaryKey;type:uuid"`
	ClientID          string         `gorm:"column:client_id;type:uuid;not null;index"`
	SoftwareSystemID  string         `gorm:"column:software_system_id;type:uuid;not null;index"`
	SoftwareVersionID string         `gorm:"column:software_version_id;type:uuid;not null"`
	StartDate         time.Time      `gorm:"column:start_date;not null"`
	EndDate           time.Time      `gorm:"column:end_date;not null;index:idx_contracts_sweep,priority:2"`
	// Price is fixed at creation and never updated afterwards.
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	SupportYears int             `gorm:"column:support_years;not null;default:0"`
	Status       ContractStatus  `gorm:"column:status;type:varchar(16);not null;default:'ACTIVE';index:idx_contracts_sweep,priority:1"`

	Payments []Payment        `gorm:"foreignKey:ContractID"`
	System   *SoftwareSystem  `gorm:"foreignKey:SoftwareSystemID"`
	Version  *SoftwareVersion `gorm:"foreignKey:SoftwareVersionID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Contract) TableName() string { return "contracts" }

func (c *Contract) IsActive() bool { return c.Status == StatusActive }

// TotalPaid sums the recorded payments. Amounts are numeric(10,2), so the
// sum is exact and TotalPaid.Equal(Price) is a safe signing condition.
func (c *Contract) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

func (c *Contract) Remaining() decimal.Decimal {
	return c.Price.Sub(c.TotalPaid())
}

// Payment is immutable once recorded and owned by exactly one contract.
type Payment struct {
	ID          string          `gorm:"column:id;primaryKey;type:uuid"`
	ContractID  string          `gorm:"column:contract_id;type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	PaymentDate time.Time       `gorm:"column:payment_date;not null"`
	CreatedAt   time.Time
}

func (Payment) TableName() string { return "payments" }

// Discount is valid on every day of the inclusive [StartDate, EndDate]
// window. Overlapping discounts of one type never stack.
type Discount struct {
	ID           string       `gorm:"column:id;primaryKey;type:uuid"`
	Name         string       `gorm:"column:name;type:varchar(100);not null"`
	DiscountType DiscountType `gorm:"column:discount_type;type:varchar(16);not null;index"`
	Percentage   int          `gorm:"column:percentage;not null"`
	StartDate    time.Time    `gorm:"column:start_date;not null"`
	EndDate      time.Time    `gorm:"column:end_date;not null"`
}

func (Discount) TableName() string { return "discounts" }

// SoftwareSystem is read-only catalog data. A nil cost means the system
// is not sold in that billing mode.
type SoftwareSystem struct {
	ID               string            `gorm:"column:id;primaryKey;type:uuid"`
	Name             string            `gorm:"column:name;type:varchar(100);not null"`
	Description      string            `gorm:"column:description;type:varchar(500)"`
	Category         string            `gorm:"column:category;type:varchar(50)"`
	UpfrontCost      *decimal.Decimal  `gorm:"column:upfront_cost;type:numeric(10,2)"`
	SubscriptionCost *decimal.Decimal  `gorm:"column:subscription_cost;type:numeric(10,2)"`
	Versions         []SoftwareVersion `gorm:"foreignKey:SoftwareSystemID"`
}

func (SoftwareSystem) TableName() string { return "software_systems" }

type SoftwareVersion struct {
	ID               string `gorm:"column:id;primaryKey;type:uuid"`
	Name             string `gorm:"column:name;type:varchar(50);not null"`
	IsCurrent        bool   `gorm:"column:is_current;not null;default:false"`
	SoftwareSystemID string `gorm:"column:software_system_id;type:uuid;not null;index"`
}

func (SoftwareVersion) TableName() string { return "software_versions" }

// Client rows are managed elsewhere; this service only reads them.
type Client struct {
	ID    string `gorm:"column:id;primaryKey;type:uuid"`
	Name  string `gorm:"column:name;type:varchar(255);not null"`
	Email string `gorm:"column:email;type:varchar(255)"`
}

func (Client) TableName() string { return "clients" }
