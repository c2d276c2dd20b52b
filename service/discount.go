package service

import (
	"context"
	"time"

	"licensing-core/types"
)

// DiscountStore lists discounts of one billing type.
type DiscountStore interface {
	ListByType(ctx context.Context, discountType types.DiscountType) ([]types.Discount, error)
}

// DiscountResolver picks the best applicable discount for a billing type
// on a given day. Pure read, no side effects.
type DiscountResolver struct {
	store DiscountStore
}

func NewDiscountResolver(store DiscountStore) *DiscountResolver {
	return &DiscountResolver{store: store}
}

// Best returns the maximum percentage among discounts of discountType
// whose inclusive validity window contains on, or 0 if none applies.
// Overlapping discounts never sum.
func (r *DiscountResolver) Best(ctx context.Context, discountType types.DiscountType, on time.Time) (int, error) {
	discounts, err := r.store.ListByType(ctx, discountType)
	if err != nil {
		return 0, err
	}

	best := 0
	for _, d := range discounts {
		if on.Before(d.StartDate) || on.After(d.EndDate) {
			continue
		}
		if d.Percentage > best {
			best = d.Percentage
		}
	}
	return best, nil
}
