package memory

import (
	"context"
	"sync"

	"github.com/minjae-ko/loopline/internal/core/domain"
)

// CouponWalletRepository tracks claimed coupons per user in memory.
type CouponWalletRepository struct {
	mu     sync.RWMutex
	byUser map[string][]domain.ClaimedCoupon
}

// NewCouponWalletRepository creates an empty CouponWalletRepository.
func NewCouponWalletRepository() *CouponWalletRepository {
	return &CouponWalletRepository{byUser: make(map[string][]domain.ClaimedCoupon)}
}

// Add appends a claimed coupon to the user's wallet.
func (r *CouponWalletRepository) Add(ctx context.Context, claimed domain.ClaimedCoupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[claimed.UserID] = append(r.byUser[claimed.UserID], claimed)
	return nil
}

// CountByUserAndCode counts how many of a coupon the user has claimed.
func (r *CouponWalletRepository) CountByUserAndCode(ctx context.Context, userID, code string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, c := range r.byUser[userID] {
		if c.Code == code {
			n++
		}
	}
	return n, nil
}

// ListByUser returns the user's claimed coupons in claim order.
func (r *CouponWalletRepository) ListByUser(ctx context.Context, userID string) ([]domain.ClaimedCoupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	claims := r.byUser[userID]
	out := make([]domain.ClaimedCoupon, len(claims))
	copy(out, claims)
	return out, nil
}
