package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a coupon. A coupon starts active and
// transitions at most once to drawn; drawn is terminal.
type Status string

const (
	StatusActive Status = "active"
	StatusDrawn  Status = "drawn"
)

// Coupon represents a single raffle entry.
type Coupon struct {
	ID           uuid.UUID  `json:"id"`
	CouponNumber int64      `json:"coupon_number"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	DrawnAt      *time.Time `json:"drawn_at,omitempty"`
}

// RegisterCouponRequest is the DTO for registering a new raffle entry.
type RegisterCouponRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=255"`
	Email string `json:"email" validate:"required,notblank,email,max=255"`
	Phone string `json:"phone" validate:"required,phone"`
}

// LoginRequest is the DTO for the admin login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}

// LoginResponse carries the session token issued on a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StatsResponse is the API response DTO for GET /api/stats.
type StatsResponse struct {
	Stats
	RecentWinners []Coupon `json:"recent_winners"`
}

// DrawResponse is the API response DTO for a completed draw. Frames are the
// cosmetic spin samples in emission order; clients may replay them as an
// animation before revealing the winner.
type DrawResponse struct {
	Winner Coupon   `json:"winner"`
	Frames []Coupon `json:"frames"`
}
