package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/minjae-ko/loopline/internal/core/domain"
	"github.com/minjae-ko/loopline/internal/core/ports"
)

// WalletEntry joins a claimed coupon with its catalog definition.
type WalletEntry struct {
	Coupon    domain.Coupon `json:"coupon"`
	ClaimedAt time.Time     `json:"claimed_at"`
}

// CouponService exposes the coupon catalog and per-user wallets.
type CouponService struct {
	catalog map[string]domain.Coupon
	ordered []domain.Coupon
	wallet  ports.CouponWalletRepository
}

// NewCouponService creates a new CouponService. ordered preserves catalog
// declaration order for listings.
func NewCouponService(ordered []domain.Coupon, catalog map[string]domain.Coupon, wallet ports.CouponWalletRepository) *CouponService {
	return &CouponService{catalog: catalog, ordered: ordered, wallet: wallet}
}

// ListCatalog returns every coupon offered, in declaration order.
func (s *CouponService) ListCatalog(ctx context.Context) []domain.Coupon {
	out := make([]domain.Coupon, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Claim adds a coupon to the user's wallet, enforcing the per-coupon
// ownership cap.
func (s *CouponService) Claim(ctx context.Context, userID, code string) (*WalletEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	coupon, ok := s.catalog[code]
	if !ok {
		return nil, fmt.Errorf("code %q: %w", code, domain.ErrCouponNotFound)
	}

	owned, err := s.wallet.CountByUserAndCode(ctx, userID, code)
	if err != nil {
		return nil, fmt.Errorf("count claimed coupons: %w", err)
	}
	if owned >= coupon.OwnLimit {
		return nil, fmt.Errorf("coupon %s (limit %d): %w", code, coupon.OwnLimit, domain.ErrCouponLimitReached)
	}

	claimed := domain.ClaimedCoupon{
		UserID:    userID,
		Code:      code,
		ClaimedAt: time.Now().UTC(),
	}
	if err := s.wallet.Add(ctx, claimed); err != nil {
		return nil, fmt.Errorf("store claimed coupon: %w", err)
	}

	return &WalletEntry{Coupon: coupon, ClaimedAt: claimed.ClaimedAt}, nil
}

// Wallet returns the coupons a user has claimed, joined with their catalog
// definitions. Claims whose code has left the catalog are skipped.
func (s *CouponService) Wallet(ctx context.Context, userID string) ([]WalletEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	claims, err := s.wallet.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]WalletEntry, 0, len(claims))
	for _, c := range claims {
		coupon, ok := s.catalog[c.Code]
		if !ok {
			continue
		}
		entries = append(entries, WalletEntry{Coupon: coupon, ClaimedAt: c.ClaimedAt})
	}
	return entries, nil
}
