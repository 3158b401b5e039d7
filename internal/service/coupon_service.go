package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kuponlucky/raffle-api/internal/model"
)

// recentWinnerCount is how many drawn coupons the stats leaderboard shows.
const recentWinnerCount = 5

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, name, email, phone string) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	ListActive(ctx context.Context) ([]model.Coupon, error)
	MarkDrawn(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reset(ctx context.Context) error
}

// CouponService provides business logic for coupon registration and admin
// dataset operations.
type CouponService struct {
	repo CouponRepositoryInterface
}

// NewCouponService creates a new CouponService with the given repository.
func NewCouponService(repo CouponRepositoryInterface) *CouponService {
	return &CouponService{repo: repo}
}

// Register creates a new coupon for the submitted contact details.
// Returns ErrDuplicateEmail when the email already holds a coupon.
// Returns ErrInvalidRequest if request data is nil or incomplete.
func (s *CouponService) Register(ctx context.Context, req *model.RegisterCouponRequest) (*model.Coupon, error) {
	// Defense-in-depth: check for nil pointer even though handler validates
	if req == nil || req.Name == "" || req.Email == "" || req.Phone == "" {
		return nil, ErrInvalidRequest
	}
	return s.repo.Insert(ctx, req.Name, req.Email, req.Phone)
}

// List retrieves all coupons, newest first.
func (s *CouponService) List(ctx context.Context) ([]model.Coupon, error) {
	return s.repo.List(ctx)
}

// Stats aggregates counts, the participation rate and the recent winner
// leaderboard from the current coupon set.
func (s *CouponService) Stats(ctx context.Context) (*model.StatsResponse, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return &model.StatsResponse{
		Stats:         model.ComputeStats(coupons),
		RecentWinners: model.RecentWinners(coupons, recentWinnerCount),
	}, nil
}

// Delete permanently removes a single coupon. Other coupons keep their
// numbers. Returns ErrCouponNotFound when the id does not exist.
func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Reset clears the entire dataset and restarts coupon numbering at 1.
func (s *CouponService) Reset(ctx context.Context) error {
	return s.repo.Reset(ctx)
}
