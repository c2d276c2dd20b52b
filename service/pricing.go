package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"licensing-core/types"
)

const (
	// Flat bonus percentage for a client that already signed a contract.
	returningClientBonus = 5

	minSupportYears = 0
	maxSupportYears = 3
)

// Flat per-year support fee, added after discounting.
var supportYearFee = decimal.NewFromInt(1000)

var hundred = decimal.NewFromInt(100)

// PricingService computes the contract price from the system's upfront
// cost, the best current discount and the support coverage.
type PricingService struct {
	discounts *DiscountResolver
}

func NewPricingService(discounts *DiscountResolver) *PricingService {
	return &PricingService{discounts: discounts}
}

// Quote prices an upfront contract for the given system on the given day.
// The support fee is undiscounted; the result is rounded to two decimal
// places, half up.
func (p *PricingService) Quote(ctx context.Context, system *types.SoftwareSystem, supportYears int, returningClient bool, today time.Time) (decimal.Decimal, error) {
	if system.UpfrontCost == nil {
		return decimal.Zero, types.InvalidArgument("software system %s is not available for upfront purchase", system.Name)
	}
	if supportYears < minSupportYears || supportYears > maxSupportYears {
		return decimal.Zero, types.InvalidArgument("support years must be between %d and %d", minSupportYears, maxSupportYears)
	}

	discount, err := p.discounts.Best(ctx, types.DiscountUpfront, today)
	if err != nil {
		return decimal.Zero, err
	}
	if returningClient {
		discount += returningClientBonus
	}
	if discount > 100 {
		discount = 100
	}
	if discount < 0 {
		discount = 0
	}

	price := system.UpfrontCost.Mul(decimal.NewFromInt(int64(100 - discount))).Div(hundred)
	price = price.Add(supportYearFee.Mul(decimal.NewFromInt(int64(supportYears))))
	return price.Round(2), nil
}
