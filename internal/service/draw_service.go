package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/kuponlucky/raffle-api/internal/model"
)

// DrawState tracks where a draw is in its lifecycle.
type DrawState int

const (
	DrawIdle DrawState = iota
	DrawSpinning
	DrawCommitted
)

// DrawService selects a uniformly random active coupon as the raffle winner.
//
// A draw runs Idle -> Spinning -> Committed. Spinning emits a fixed number of
// independent uniform samples as animation frames; they have no bearing on
// the outcome. The winner is one final independent sample, committed through
// MarkDrawn. Two admins drawing at once can both sample from overlapping
// active sets; the repository's status guard still ensures each coupon is
// drawn at most once.
type DrawService struct {
	repo   CouponRepositoryInterface
	frames int
	delay  time.Duration
	intN   func(n int) int
}

// NewDrawService creates a DrawService emitting frames spin samples paced by
// delay.
func NewDrawService(repo CouponRepositoryInterface, frames int, delay time.Duration) *DrawService {
	return &DrawService{
		repo:   repo,
		frames: frames,
		delay:  delay,
		intN:   rand.IntN,
	}
}

// SpinFrameFunc receives each intermediate "currently highlighted" coupon
// during the spin, and its state (Spinning for frames, Committed for the
// winner).
type SpinFrameFunc func(state DrawState, coupon model.Coupon)

// RunDraw performs one full draw over the current active set.
// Returns ErrNoActiveCoupons, with no mutation, when nothing is active.
// If the status commit fails the error is returned and the sampled coupon
// stays active; the caller may retry the entire draw.
func (s *DrawService) RunDraw(ctx context.Context, onFrame SpinFrameFunc) (*model.Coupon, error) {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active coupons: %w", err)
	}
	if len(active) == 0 {
		return nil, ErrNoActiveCoupons
	}

	for i := 0; i < s.frames; i++ {
		frame := active[s.intN(len(active))]
		if onFrame != nil {
			onFrame(DrawSpinning, frame)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}

	// The final sample is independent of the last frame.
	final := active[s.intN(len(active))]
	winner, err := s.repo.MarkDrawn(ctx, final.ID)
	if err != nil {
		return nil, fmt.Errorf("commit winner %d: %w", final.CouponNumber, err)
	}
	if onFrame != nil {
		onFrame(DrawCommitted, *winner)
	}
	return winner, nil
}
