package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateContractRequest struct {
	ClientID          string    `json:"clientId" binding:"required,uuid"`
	SoftwareSystemID  string    `json:"softwareSystemId" binding:"required,uuid"`
	SoftwareVersionID string    `json:"softwareVersionId" binding:"required,uuid"`
	StartDate         time.Time `json:"startDate" binding:"required"`
	EndDate           time.Time `json:"endDate" binding:"required"`
	SupportYears      int       `json:"supportYears"`
}

type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ContractView is the read model returned by every contract operation.
type ContractView struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"clientId"`
	SoftwareName    string          `json:"softwareName"`
	SoftwareVersion string          `json:"softwareVersion"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	SupportYears    int             `json:"supportYears"`
	Status          ContractStatus  `json:"status"`
	Price           decimal.Decimal `json:"price"`
	Paid            decimal.Decimal `json:"paid"`
	LeftToPay       decimal.Decimal `json:"leftToPay"`
}
